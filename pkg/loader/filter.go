package loader

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/Dicklesworthstone/responsive_viewer/pkg/layout"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/model"
)

// searchText joins the displayed text of every column of r.
func searchText(r model.Record, cols []model.Column) string {
	parts := make([]string, 0, len(cols))
	for _, c := range cols {
		if c.Render != nil {
			// Render functions may be costly or stateful; search raw values.
			parts = append(parts, r.String(c.Key))
			continue
		}
		if text := layout.CellText(c, r); text != layout.Missing {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// Filter returns the records matching query, best match first. Matching
// is fuzzy over the displayed text of cols. An empty query returns rs
// unchanged.
func Filter(rs model.Records, cols []model.Column, query string) model.Records {
	query = strings.TrimSpace(query)
	if query == "" {
		return rs
	}
	if len(cols) == 0 {
		cols = model.InferColumns(rs)
	}
	searchStrings := make([]string, len(rs))
	for i, r := range rs {
		searchStrings[i] = searchText(r, cols)
	}
	matches := fuzzy.Find(query, searchStrings)
	out := make(model.Records, len(matches))
	for i, m := range matches {
		out[i] = rs[m.Index]
	}
	return out
}
