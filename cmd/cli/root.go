package main

import (
	"context"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"nsfgstats/adapters/excel"
	"nsfgstats/adapters/nsfg"
	"nsfgstats/domain/dataset"
	"nsfgstats/internal/config"
	"nsfgstats/internal/errors"
	"nsfgstats/internal/logging"
	"nsfgstats/ports"
)

// app carries what every subcommand needs once flags and environment are
// resolved.
type app struct {
	cfg *config.Config
	log *logrus.Logger

	envFile   string
	dctFile   string
	datFile   string
	tableFile string
	clean     bool
	logLevel  string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "nsfgstats",
		Short: "Descriptive statistics over the NSFG pregnancy survey",
		Long: `nsfgstats loads the NSFG 2002 female pregnancy file (a Stata dictionary
plus a fixed-width, optionally gzipped, data file) or a csv/xlsx table and
computes frequency tables, modes and effect sizes between first babies and
other live births.

Configuration is read from the environment (and a .env file):
- NSFG_DCT_FILE (default: 2002FemPreg.dct)
- NSFG_DAT_FILE (default: 2002FemPreg.dat.gz)
- TABLE_FILE (optional csv/xlsx used instead of the NSFG files)
- REPORT_TOP_MODES (default: 5)
- REPORT_VARIABLES (default: totalwgt_lb,prglngth,agepreg)
- PORT (default: 8080)
- LOG_LEVEL, LOG_FORMAT (default: info, text)`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.envFile, "env-file", ".env", "Environment file to load if present")
	flags.StringVar(&a.dctFile, "dct", "", "Stata dictionary file (overrides NSFG_DCT_FILE)")
	flags.StringVar(&a.datFile, "dat", "", "Fixed-width data file (overrides NSFG_DAT_FILE)")
	flags.StringVar(&a.tableFile, "table", "", "csv or xlsx file to use instead of the NSFG files (overrides TABLE_FILE)")
	flags.BoolVar(&a.clean, "clean", false, "Apply the pregnancy recodes to a --table file")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")

	rootCmd.AddCommand(
		newRunCmd(a),
		newModesCmd(a),
		newEffectCmd(a),
		newDescribeCmd(a),
		newCheckCmd(a),
		newReportCmd(a),
		newServeCmd(a),
	)
	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load(a.envFile)

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	flags := cmd.Flags()
	if flags.Changed("dct") {
		cfg.Data.DctFile = a.dctFile
	}
	if flags.Changed("dat") {
		cfg.Data.DatFile = a.datFile
	}
	if flags.Changed("table") {
		cfg.Data.TableFile = a.tableFile
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	logger.SetOutput(cmd.ErrOrStderr())

	a.cfg = cfg
	a.log = logger
	return nil
}

func (a *app) loader() ports.DatasetLoader {
	if a.cfg.Data.TableFile != "" {
		return excel.NewDataReader(a.cfg.Data.TableFile, a.log)
	}
	return nsfg.NewLoader(a.cfg.Data.DctFile, a.cfg.Data.DatFile, a.log)
}

// usesNSFGFiles reports whether data comes from the dictionary and
// fixed-width files rather than a table.
func (a *app) usesNSFGFiles() bool {
	return a.cfg.Data.TableFile == ""
}

// loadPregnancies loads the configured dataset. Table files are only
// recoded when --clean is set; the NSFG files always are.
func (a *app) loadPregnancies(ctx context.Context) (*dataset.Frame, string, error) {
	loader := a.loader()
	frame, err := loader.Load(ctx)
	if err != nil {
		return nil, "", errors.Wrapf(err, "loading %s", loader.Source())
	}
	if !a.usesNSFGFiles() && a.clean {
		if err := nsfg.CleanFemPreg(frame); err != nil {
			return nil, "", err
		}
	}
	return frame, filepath.Base(loader.Source()), nil
}

func (a *app) loadGroups(ctx context.Context) (*nsfg.Groups, string, error) {
	preg, source, err := a.loadPregnancies(ctx)
	if err != nil {
		return nil, "", err
	}
	groups, err := nsfg.MakeFrames(preg)
	if err != nil {
		return nil, "", err
	}
	a.log.WithFields(logrus.Fields{
		"live":   groups.Live.Len(),
		"firsts": groups.Firsts.Len(),
		"others": groups.Others.Len(),
	}).Debug("pregnancies split")
	return groups, source, nil
}
