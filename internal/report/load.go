package report

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/dgallion1/envreport/internal/chart"
	"github.com/dgallion1/envreport/internal/config"
	"github.com/dgallion1/envreport/internal/parser"
)

// Load reads the constants file and its report template and returns a
// Generator for them. Relative image paths in the template resolve against
// the template's directory.
func Load(cfg config.Config, log *slog.Logger) (*Generator, *config.Constants, error) {
	consts, err := config.LoadConstants(cfg.ConstantsPath)
	if err != nil {
		return nil, nil, err
	}
	if cfg.OutputDir != "" {
		consts.OutputDir = cfg.OutputDir
	}
	tmpl, err := parser.LoadTemplate(consts.StructureFile)
	if err != nil {
		return nil, nil, err
	}
	charts, err := chart.New(cfg.ChartBackend)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", config.ErrConfig, err)
	}

	log.Info("report template loaded",
		"constants", cfg.ConstantsPath,
		"structure", consts.StructureFile,
		"sections", len(tmpl.Order),
		"chart_backend", cfg.ChartBackend,
	)
	gen := NewGenerator(tmpl, consts, Options{
		Charts:           charts,
		ImageWidthInches: cfg.ImageWidthInches,
		AssetDir:         filepath.Dir(consts.StructureFile),
		Logger:           log,
	})
	return gen, consts, nil
}
