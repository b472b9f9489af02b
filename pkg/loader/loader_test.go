package loader

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dicklesworthstone/responsive_viewer/internal/testutil"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadJSONL_SkipsMalformedLines(t *testing.T) {
	input := strings.Join([]string{
		`{"id": 1, "name": "alpha", "score": 0.5}`,
		``,
		`{"id": 2, "name": "beta"`,
		`[1, 2, 3]`,
		`null`,
		`  {"id": 3, "name": "gamma", "tags": [1, "x"]}  `,
	}, "\n")

	res, err := LoadJSONL(strings.NewReader(input), testutil.NewTestLogger(t))
	require.NoError(t, err)

	assert.Equal(t, 3, res.Skipped)
	require.Len(t, res.Records, 2)
	assert.Equal(t, int64(1), res.Records[0]["id"])
	assert.Equal(t, 0.5, res.Records[0]["score"])
	assert.Equal(t, []any{int64(1), "x"}, res.Records[1]["tags"])
}

func TestLoadJSONL_Empty(t *testing.T) {
	res, err := LoadJSONL(strings.NewReader(""), nil)
	require.NoError(t, err)
	assert.NotNil(t, res.Records)
	assert.Empty(t, res.Records)
}

func TestLoadJSON(t *testing.T) {
	res, err := LoadJSON(strings.NewReader(`[{"a": 1}, null, {"a": 2.5, "b": {"c": 3}}]`))
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, 2.5, res.Records[1]["a"])
	assert.Equal(t, map[string]any{"c": int64(3)}, res.Records[1]["b"])

	_, err = LoadJSON(strings.NewReader(`{"not": "an array"}`))
	assert.Error(t, err)
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    Format
	}{
		{"jsonl extension", "data.jsonl", `[not really]`, FormatJSONL},
		{"json array", "data.json", "\n  [{\"a\":1}]", FormatJSON},
		{"object lines", "data.txt", `{"a":1}`, FormatJSONL},
		{"sqlite header", "data.bin", "SQLite format 3\x00rest", FormatSQLite},
		{"sqlite extension", "data.db", "", FormatSQLite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := DetectFormat(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.ErrorIs(t, err, ErrNoRecords)
}

func TestLoadFile(t *testing.T) {
	ctx := context.Background()

	res, err := LoadFile(ctx, writeFile(t, "a.jsonl", "{\"x\":1}\n{\"x\":2}\n"), FormatAuto, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, FormatJSONL, res.Format)
	assert.Len(t, res.Records, 2)

	res, err = LoadFile(ctx, writeFile(t, "a.json", `[{"x":1}]`), FormatAuto, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, res.Format)

	_, err = LoadFile(ctx, "x", Format("xml"), LoadOptions{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = LoadFile(ctx, filepath.Join(t.TempDir(), "nope.json"), FormatJSON, LoadOptions{})
	assert.ErrorIs(t, err, ErrNoRecords)
}

func createDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orders.db")
	db, err := sql.Open(DriverPure, path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE orders (id INTEGER PRIMARY KEY, customer TEXT, total REAL, note BLOB);
		CREATE TABLE zz_audit (id INTEGER);
		INSERT INTO orders (customer, total, note) VALUES ('ada', 12.5, 'first'), ('grace', 40, NULL);
	`)
	require.NoError(t, err)
	return path
}

func TestLoadSQLite(t *testing.T) {
	ctx := context.Background()
	path := createDB(t)

	tables, err := ListTables(ctx, path, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"orders", "zz_audit"}, tables)

	res, err := LoadSQLite(ctx, path, "", DriverPure)
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "ada", res.Records[0]["customer"])
	assert.Equal(t, 12.5, res.Records[0]["total"])
	assert.Equal(t, "first", res.Records[0]["note"])
	assert.Nil(t, res.Records[1]["note"])

	res, err = LoadSQLite(ctx, path, "SELECT customer FROM orders WHERE total > 20", "")
	require.NoError(t, err)
	assert.Equal(t, model.Records{{"customer": "grace"}}, res.Records)

	auto, err := LoadFile(ctx, path, FormatAuto, LoadOptions{Query: "SELECT count(*) AS n FROM orders"})
	require.NoError(t, err)
	assert.Equal(t, FormatSQLite, auto.Format)
	assert.Equal(t, int64(2), auto.Records[0]["n"])
}

func TestLoadSQLite_Errors(t *testing.T) {
	ctx := context.Background()
	path := createDB(t)

	_, err := LoadSQLite(ctx, path, "", "postgres")
	assert.Error(t, err)

	_, err = LoadSQLite(ctx, filepath.Join(t.TempDir(), "missing.db"), "", "")
	assert.ErrorIs(t, err, ErrNoRecords)

	_, err = LoadSQLite(ctx, path, "SELECT * FROM nowhere", "")
	assert.Error(t, err)

	_, err = TableQuery("orders; DROP TABLE orders")
	assert.Error(t, err)
}

func TestLoadSQLite_CgoDriver(t *testing.T) {
	path := createDB(t)
	res, err := LoadSQLite(context.Background(), path, "SELECT id FROM orders ORDER BY id", DriverCgo)
	if err != nil {
		t.Skipf("cgo sqlite driver unavailable: %v", err)
	}
	assert.Len(t, res.Records, 2)
}

func TestFilter(t *testing.T) {
	rs := model.Records{
		{"name": "Alpha Centauri", "status": "open"},
		{"name": "Beta", "status": "closed"},
		{"name": "Gamma", "status": "in_progress"},
	}
	cols := []model.Column{{Key: "name"}, {Key: "status", Format: model.FormatBadge}}

	assert.Equal(t, rs, Filter(rs, cols, "  "))

	got := Filter(rs, cols, "alp")
	require.Len(t, got, 1)
	assert.Equal(t, "Alpha Centauri", got[0]["name"])

	got = Filter(rs, cols, "PROG")
	require.Len(t, got, 1)
	assert.Equal(t, "Gamma", got[0]["name"])

	assert.Empty(t, Filter(rs, cols, "zzz"))

	calls := 0
	withRender := []model.Column{{Key: "name", Render: func(model.Record) string { calls++; return "x" }}}
	assert.Len(t, Filter(rs, withRender, "beta"), 1)
	assert.Zero(t, calls)

	assert.Len(t, Filter(rs, nil, "closed"), 1)
}

func TestSources(t *testing.T) {
	path := writeFile(t, "people.jsonl", "{\"n\":1}\n")
	src := FileSource{Path: path}
	assert.Equal(t, "people.jsonl", src.Name())
	res, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Records, 1)

	static := StaticSource{Label: "fixed", Records: Result{Records: model.Records{{"a": 1}}}}
	res, err = static.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fixed", static.Name())
	assert.Len(t, res.Records, 1)
}
