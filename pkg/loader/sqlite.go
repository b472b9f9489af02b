package loader

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"regexp"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/Dicklesworthstone/responsive_viewer/pkg/model"
)

// SQLite driver names. DriverPure is modernc.org/sqlite and works without
// cgo; DriverCgo is github.com/mattn/go-sqlite3 and needs a cgo build.
const (
	DriverPure = "sqlite"
	DriverCgo  = "sqlite3"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func openSQLite(path, driver string) (*sql.DB, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w at %s", ErrNoRecords, path)
	}
	switch driver {
	case "":
		driver = DriverPure
	case DriverPure, DriverCgo:
	default:
		return nil, fmt.Errorf("unknown sqlite driver %q", driver)
	}
	db, err := sql.Open(driver, "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// ListTables returns the user tables of the database at path.
func ListTables(ctx context.Context, path, driver string) ([]string, error) {
	db, err := openSQLite(path, driver)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type='table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// TableQuery returns a query selecting every row of table.
func TableQuery(table string) (string, error) {
	if !identRe.MatchString(table) {
		return "", fmt.Errorf("invalid table name %q", table)
	}
	return "SELECT * FROM " + table, nil
}

// LoadSQLite runs query against the database at path and returns one
// record per row keyed by column name. An empty query reads the first
// table.
func LoadSQLite(ctx context.Context, path, query, driver string) (Result, error) {
	if query == "" {
		tables, err := ListTables(ctx, path, driver)
		if err != nil {
			return Result{}, err
		}
		if len(tables) == 0 {
			return Result{Format: FormatSQLite, Records: model.Records{}}, nil
		}
		if query, err = TableQuery(tables[0]); err != nil {
			return Result{}, err
		}
	}

	db, err := openSQLite(path, driver)
	if err != nil {
		return Result{}, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return Result{}, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return Result{}, fmt.Errorf("columns: %w", err)
	}

	res := Result{Format: FormatSQLite, Records: model.Records{}}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return Result{}, fmt.Errorf("scan row: %w", err)
		}
		rec := make(model.Record, len(cols))
		for i, c := range cols {
			rec[c] = sqlValue(vals[i])
		}
		res.Records = append(res.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return Result{}, fmt.Errorf("read rows: %w", err)
	}
	return res, nil
}

// sqlValue converts driver values into the types JSON sources produce.
func sqlValue(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case float32:
		return float64(x)
	}
	return v
}
