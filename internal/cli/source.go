package cli

import (
	"fmt"
	"log/slog"

	"github.com/Dicklesworthstone/responsive_viewer/pkg/config"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/loader"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/model"
)

// openSource builds the record source for path from the data settings.
func openSource(path string, dc config.DataConfig, logger *slog.Logger) (loader.FileSource, error) {
	format := loader.Format(dc.Format)
	if !format.IsValid() {
		return loader.FileSource{}, fmt.Errorf("%w: %q", loader.ErrUnsupportedFormat, dc.Format)
	}
	return loader.FileSource{
		Path:   path,
		Format: format,
		Query:  dc.Query,
		Driver: dc.Driver,
		Logger: logger,
	}, nil
}

// loadManifest reads the layout manifest, if one is configured. Without
// one, columns are inferred from the records.
func loadManifest(dc config.DataConfig) (*model.Manifest, error) {
	if dc.Manifest == "" {
		return nil, nil
	}
	m, err := model.LoadManifest(dc.Manifest)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}
	return m, nil
}
