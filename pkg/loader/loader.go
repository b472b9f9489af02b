// Package loader reads datasets into model.Records from JSONL files, JSON
// arrays and SQLite databases.
package loader

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Dicklesworthstone/responsive_viewer/pkg/model"
)

// ErrNoRecords is returned when the data source does not exist.
var ErrNoRecords = errors.New("no records found")

// ErrUnsupportedFormat is returned for data that is none of the known
// formats.
var ErrUnsupportedFormat = errors.New("unsupported data format")

// Format identifies how a data file is encoded.
type Format string

const (
	FormatAuto   Format = ""
	FormatJSONL  Format = "jsonl"
	FormatJSON   Format = "json"
	FormatSQLite Format = "sqlite"
)

// IsValid returns true if the format is a recognized value
func (f Format) IsValid() bool {
	switch f {
	case FormatAuto, FormatJSONL, FormatJSON, FormatSQLite:
		return true
	}
	return false
}

var sqliteHeader = []byte("SQLite format 3\x00")

// DetectFormat guesses the format of path from its first bytes, falling
// back to the extension.
func DetectFormat(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FormatAuto, fmt.Errorf("%w at %s", ErrNoRecords, path)
		}
		return FormatAuto, fmt.Errorf("failed to open data file: %w", err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return FormatAuto, fmt.Errorf("failed to read data file: %w", err)
	}
	head = head[:n]

	if bytes.HasPrefix(head, sqliteHeader) {
		return FormatSQLite, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	}
	trimmed := bytes.TrimLeft(head, " \t\r\n\ufeff")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return FormatJSON, nil
	}
	return FormatJSONL, nil
}

// Result is a loaded dataset.
type Result struct {
	Records model.Records
	// Skipped counts malformed JSONL lines that were ignored.
	Skipped int
	Format  Format
}

// LoadJSONL reads one JSON object per line. Blank lines are ignored and
// malformed lines are skipped and counted.
func LoadJSONL(r io.Reader, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	res := Result{Format: FormatJSONL, Records: model.Records{}}
	scanner := bufio.NewScanner(r)
	// Increase buffer size for large lines
	const maxCapacity = 1024 * 1024 * 10 // 10MB
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var rec model.Record
		if err := decodeObject(line, &rec); err != nil {
			// Skip malformed lines but continue loading the rest
			res.Skipped++
			logger.Debug("skipping malformed line", "line", lineNum, "error", err)
			continue
		}
		res.Records = append(res.Records, rec)
	}

	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("error reading records: %w", err)
	}
	return res, nil
}

// LoadJSON reads a JSON array of objects.
func LoadJSON(r io.Reader) (Result, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		return Result{}, fmt.Errorf("decoding JSON array: %w", err)
	}
	res := Result{Format: FormatJSON, Records: make(model.Records, 0, len(raw))}
	for _, obj := range raw {
		if obj == nil {
			continue
		}
		res.Records = append(res.Records, normalize(obj))
	}
	return res, nil
}

func decodeObject(data []byte, rec *model.Record) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return err
	}
	if obj == nil {
		return errors.New("not an object")
	}
	*rec = normalize(obj)
	return nil
}

// normalize turns json.Number values into int64 or float64 so records
// compare and format the same regardless of source.
func normalize(obj map[string]any) model.Record {
	rec := make(model.Record, len(obj))
	for k, v := range obj {
		rec[k] = normalizeValue(v)
	}
	return rec
}

func normalizeValue(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case map[string]any:
		return map[string]any(normalize(x))
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalizeValue(e)
		}
		return out
	}
	return v
}
