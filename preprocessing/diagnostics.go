package preprocessing

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/featprep/core/frame"
	"github.com/YuminosukeSato/featprep/feature"
	"github.com/YuminosukeSato/featprep/pkg/errors"
)

// Diagnostic stages.
const (
	stageClassify  = "classify"
	stageFit       = "fit"
	stageTransform = "transform"
)

// sampleRows is the number of leading rows written as a sample.
const sampleRows = 5

// diagnostics appends stage summaries to a log file and stdout.
type diagnostics struct {
	path   string
	stdout io.Writer
}

func newDiagnostics(path string) *diagnostics {
	if path == "" {
		return nil
	}
	return &diagnostics{path: path, stdout: os.Stdout}
}

func (d *diagnostics) emit(stage string, write func(logger zerolog.Logger)) error {
	if d == nil {
		return nil
	}
	f, err := os.OpenFile(d.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrapf(err, "failed to open diagnostics file %s", d.path)
	}
	defer f.Close()

	logger := zerolog.New(zerolog.MultiLevelWriter(d.stdout, f)).
		With().Timestamp().Str("stage", stage).Logger()
	write(logger)
	return nil
}

// classified writes the features assigned to each active strategy.
func (d *diagnostics) classified(groups *feature.Groups) error {
	return d.emit(stageClassify, func(logger zerolog.Logger) {
		for _, g := range groups.Active() {
			logger.Info().
				Str("strategy", g.Strategy.String()).
				Strs("features", g.Columns()).
				Msg("features for " + g.Strategy.String())
		}
	})
}

// frames writes the shape and a head sample of each named intermediate frame.
func (d *diagnostics) frames(stage string, named []namedFrame) error {
	return d.emit(stage, func(logger zerolog.Logger) {
		for _, nf := range named {
			if nf.frame == nil {
				continue
			}
			logger.Info().
				Str("frame", nf.name).
				Ints("shape", []int{nf.frame.Rows(), nf.frame.Cols()}).
				Strs("columns", nf.frame.Columns()).
				Interface("sample", nf.frame.Head(sampleRows)).
				Msg(nf.name + " shape")
		}
	})
}

type namedFrame struct {
	name  string
	frame *frame.Frame
}
