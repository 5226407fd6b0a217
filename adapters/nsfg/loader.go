package nsfg

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"nsfgstats/domain/dataset"
	"nsfgstats/internal/errors"
)

// Loader reads the NSFG female pregnancy file described by a Stata
// dictionary and cleans it. It satisfies ports.DatasetLoader.
type Loader struct {
	DctPath string
	DatPath string
	log     logrus.FieldLogger
}

// NewLoader creates a loader for the given dictionary and data files
func NewLoader(dctPath, datPath string, log logrus.FieldLogger) *Loader {
	return &Loader{
		DctPath: dctPath,
		DatPath: datPath,
		log:     log.WithField("component", "nsfg"),
	}
}

// Source describes the data files
func (l *Loader) Source() string {
	return l.DatPath + " (" + l.DctPath + ")"
}

// Load reads and cleans the pregnancy file
func (l *Loader) Load(ctx context.Context) (*dataset.Frame, error) {
	return ReadFemPreg(ctx, l.DctPath, l.DatPath, l.log)
}

// ReadFemPreg reads the dictionary and the (optionally gzipped) data file
// and applies CleanFemPreg.
func ReadFemPreg(ctx context.Context, dctPath, datPath string, log logrus.FieldLogger) (*dataset.Frame, error) {
	start := time.Now()

	dict, err := readDictionaryFile(dctPath)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{"file": dctPath, "variables": len(dict.Variables)}).Debug("dictionary parsed")

	file, err := os.Open(datPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.NotFound("data file "+datPath), "opening pregnancy data")
		}
		return nil, errors.Wrapf(err, "opening %s", datPath)
	}
	defer file.Close()

	r, closer, err := MaybeGunzip(file)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", datPath)
	}
	defer closer.Close()

	frame, err := ReadFixedWidth(ctx, dict, r)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", datPath)
	}
	if err := CleanFemPreg(frame); err != nil {
		return nil, errors.Wrap(err, "cleaning pregnancy data")
	}

	log.WithFields(logrus.Fields{
		"file":    datPath,
		"records": frame.Len(),
		"elapsed": time.Since(start).Round(time.Millisecond).String(),
	}).Info("pregnancy file loaded")
	return frame, nil
}

func readDictionaryFile(path string) (*Dictionary, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.NotFound("dictionary "+path), "opening Stata dictionary")
		}
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer file.Close()

	dict, err := ReadStataDct(file)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return dict, nil
}
