package loader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Source produces a dataset on demand. Explorers call Load again when the
// underlying data changes.
type Source interface {
	Load(ctx context.Context) (Result, error)
	Name() string
}

// FileSource loads a dataset from a file.
type FileSource struct {
	Path   string
	Format Format
	// Query and Driver apply to SQLite files.
	Query  string
	Driver string
	Logger *slog.Logger
}

// Name returns the file's base name.
func (s FileSource) Name() string {
	return filepath.Base(s.Path)
}

// Load implements Source.
func (s FileSource) Load(ctx context.Context) (Result, error) {
	return LoadFile(ctx, s.Path, s.Format, LoadOptions{Query: s.Query, Driver: s.Driver, Logger: s.Logger})
}

// LoadOptions tunes LoadFile.
type LoadOptions struct {
	Query  string
	Driver string
	Logger *slog.Logger
}

// LoadFile reads path in the given format, detecting it when format is
// FormatAuto.
func LoadFile(ctx context.Context, path string, format Format, opts LoadOptions) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if !format.IsValid() {
		return Result{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if format == FormatAuto {
		var err error
		if format, err = DetectFormat(path); err != nil {
			return Result{}, err
		}
	}

	if format == FormatSQLite {
		return LoadSQLite(ctx, path, opts.Query, opts.Driver)
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{}, fmt.Errorf("%w at %s", ErrNoRecords, path)
		}
		return Result{}, fmt.Errorf("failed to open data file: %w", err)
	}
	defer file.Close()

	var res Result
	if format == FormatJSON {
		res, err = LoadJSON(file)
	} else {
		res, err = LoadJSONL(file, logger)
	}
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("loaded records", "path", path, "format", string(res.Format), "records", len(res.Records), "skipped", res.Skipped)
	return res, nil
}

// StaticSource serves a fixed dataset.
type StaticSource struct {
	Label   string
	Records Result
}

// Name implements Source.
func (s StaticSource) Name() string { return s.Label }

// Load implements Source.
func (s StaticSource) Load(context.Context) (Result, error) { return s.Records, nil }
