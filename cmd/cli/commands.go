package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"nsfgstats/adapters/nsfg"
	"nsfgstats/domain/dataset"
	"nsfgstats/domain/stats"
	"nsfgstats/internal/errors"
	"nsfgstats/internal/report"
	"nsfgstats/ui"
)

const defaultModeVariable = "prglngth"

func (a *app) reportOptions() report.Options {
	opts := report.DefaultOptions()
	opts.TopModes = a.cfg.Report.TopModes
	opts.Compare = a.cfg.Report.Variables
	return opts
}

func newRunCmd(a *app) *cobra.Command {
	var skipCheck bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Print the pregnancy length modes and the first-babies comparisons",
		Long: `Compute the mode of pregnancy length for live births, list the most
frequent lengths, and compare first babies with others on each configured
variable (means, difference and Cohen's d).

The mode (39 weeks) and the frequency of the top mode (4693) are asserted
against the published 2002 results unless --skip-check is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, source, err := a.loadGroups(cmd.Context())
			if err != nil {
				return err
			}
			rep, err := report.NewBuilder(a.reportOptions(), a.log).Build(cmd.Context(), source, groups)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := report.WriteModes(out, rep); err != nil {
				return err
			}
			if !skipCheck {
				if err := report.Check(rep, report.Chapter2); err != nil {
					return err
				}
				fmt.Fprintf(out, "%s: All tests passed.\n", cmd.Root().Name())
			}
			for _, c := range rep.Comparisons {
				if err := report.WriteComparison(out, c); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipCheck, "skip-check", false, "Do not assert the published mode and frequency")
	return cmd
}

func newModesCmd(a *app) *cobra.Command {
	var group string
	var top, extremes int

	cmd := &cobra.Command{
		Use:   "modes [variable]",
		Short: "List the most frequent values of a variable",
		Long: `List the mode and the most frequent values of a variable, most frequent
first. Values with equal frequency keep the order they first appear in.

Example: nsfgstats modes prglngth --group firsts --top 10 --extremes 5`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			variable := defaultModeVariable
			if len(args) == 1 {
				variable = args[0]
			}
			if !cmd.Flags().Changed("top") {
				top = a.cfg.Report.TopModes
			}
			if top < 1 {
				return errors.InvalidInput("--top must be positive")
			}

			groups, _, err := a.loadGroups(cmd.Context())
			if err != nil {
				return err
			}
			frame, err := selectGroup(groups, group)
			if err != nil {
				return err
			}
			hist, err := frame.Hist(variable)
			if err != nil {
				return err
			}
			mode, err := stats.Mode(hist)
			if err != nil {
				return errors.Wrapf(err, "mode of %s", variable)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Mode of %s %g\n", variable, mode)
			modes := stats.AllModes(hist)
			printPairs(out, modes[:min(top, len(modes))])
			if extremes > 0 {
				fmt.Fprintln(out, "Smallest")
				printPairs(out, hist.Smallest(extremes))
				fmt.Fprintln(out, "Largest")
				printPairs(out, hist.Largest(extremes))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&group, "group", "live", "Group to tabulate: live, firsts or others")
	cmd.Flags().IntVar(&top, "top", 5, "Number of modes to list (default REPORT_TOP_MODES)")
	cmd.Flags().IntVar(&extremes, "extremes", 0, "Also list this many of the smallest and largest values")
	return cmd
}

func newEffectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "effect [variables...]",
		Short: "Compare first babies with others",
		Long: `For each variable print the mean for first babies and for others, the
difference between them and Cohen's effect size. Defaults to
REPORT_VARIABLES.

Example: nsfgstats effect totalwgt_lb prglngth`,
		RunE: func(cmd *cobra.Command, args []string) error {
			variables := args
			if len(variables) == 0 {
				variables = a.cfg.Report.Variables
			}

			groups, _, err := a.loadGroups(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, variable := range variables {
				c, err := report.Compare(groups, variable)
				if err != nil {
					return err
				}
				if err := report.WriteComparison(out, c); err != nil {
					return err
				}
			}
			return nil
		},
	}
	return cmd
}

func newDescribeCmd(a *app) *cobra.Command {
	var group string

	cmd := &cobra.Command{
		Use:   "describe [variables...]",
		Short: "Summarize numeric columns",
		Long: `Print count, missing, mean, standard deviation and quartiles for each
numeric column of a group. With no arguments every numeric column is
described.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, _, err := a.loadGroups(cmd.Context())
			if err != nil {
				return err
			}
			frame, err := selectGroup(groups, group)
			if err != nil {
				return err
			}

			variables := args
			if len(variables) == 0 {
				for _, name := range frame.Names() {
					if kind, _ := frame.Kind(name); kind == dataset.KindNumeric {
						variables = append(variables, name)
					}
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-14s %7s %7s %10s %10s %10s %10s %10s %10s %10s\n",
				"variable", "count", "missing", "mean", "std", "min", "25%", "50%", "75%", "max")
			for _, variable := range variables {
				column, err := frame.Column(variable)
				if err != nil {
					return err
				}
				s, err := stats.Summarize(column)
				if errors.HasCode(err, errors.CodeInsufficientData) {
					a.log.WithError(err).WithField("variable", variable).Warn("skipping column")
					continue
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%-14s %7d %7d %10.4g %10.4g %10.4g %10.4g %10.4g %10.4g %10.4g\n",
					variable, s.Count, s.Missing, s.Mean, s.StdDev, s.Min, s.Q25, s.Median, s.Q75, s.Max)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&group, "group", "live", "Group to describe: live, firsts or others")
	return cmd
}

func newCheckCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the pregnancy file against the published 2002 counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.usesNSFGFiles() && !a.clean {
				return errors.InvalidInput("check needs the NSFG files or a --clean table")
			}
			preg, source, err := a.loadPregnancies(cmd.Context())
			if err != nil {
				return err
			}
			if err := nsfg.CheckFemPreg(preg, nsfg.Published2002); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: All tests passed.\n", source)
			return nil
		},
	}
	return cmd
}

func newReportCmd(a *app) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the full report as text, markdown, html or json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, source, err := a.loadGroups(cmd.Context())
			if err != nil {
				return err
			}
			rep, err := report.NewBuilder(a.reportOptions(), a.log).Build(cmd.Context(), source, groups)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return errors.Wrapf(err, "creating %s", output)
				}
				defer f.Close()
				out = f
			}
			if err := writeReport(out, rep, format); err != nil {
				return err
			}
			if output != "" {
				a.log.WithField("file", output).Info("report written")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, markdown, html or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the report and frequency tables over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}
			groups, source, err := a.loadGroups(cmd.Context())
			if err != nil {
				return err
			}
			rep, err := report.NewBuilder(a.reportOptions(), a.log).Build(cmd.Context(), source, groups)
			if err != nil {
				return err
			}
			return ui.NewApp(groups, rep, a.log).Start(cmd.Context(), ":"+a.cfg.Server.Port)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Listen port (overrides PORT)")
	return cmd
}

func writeReport(w io.Writer, rep *report.Report, format string) error {
	switch format {
	case "text":
		return report.WriteText(w, rep)
	case "markdown", "md":
		_, err := w.Write(report.Markdown(rep))
		return err
	case "html":
		_, err := w.Write(report.HTML(rep))
		return err
	case "json":
		payload, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return errors.Wrap(err, "encoding report")
		}
		_, err = w.Write(append(payload, '\n'))
		return err
	}
	return errors.Newf(errors.CodeInvalidInput, "unknown report format %q", format)
}

func selectGroup(groups *nsfg.Groups, name string) (*dataset.Frame, error) {
	switch name {
	case "live":
		return groups.Live, nil
	case "firsts":
		return groups.Firsts, nil
	case "others":
		return groups.Others, nil
	}
	return nil, errors.Newf(errors.CodeInvalidInput, "unknown group %q (want live, firsts or others)", name)
}

func printPairs(w io.Writer, pairs []stats.Pair) {
	for _, p := range pairs {
		fmt.Fprintf(w, "%g %d\n", p.Value, p.Freq)
	}
}
