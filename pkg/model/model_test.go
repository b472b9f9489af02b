package model

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dicklesworthstone/responsive_viewer/pkg/viewport"
)

func TestRecordField(t *testing.T) {
	r := Record{
		"name":       "Ada",
		"owner":      map[string]any{"name": "Grace", "team": Record{"id": 7}},
		"owner.name": "literal",
		"empty":      nil,
	}

	tests := []struct {
		key    string
		want   any
		wantOK bool
	}{
		{"name", "Ada", true},
		{"owner.name", "literal", true},
		{"owner.team.id", 7, true},
		{"owner.missing", nil, false},
		{"empty", nil, false},
		{"missing", nil, false},
		{"", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := r.Field(tt.key)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStringifyAndToFloat(t *testing.T) {
	assert.Equal(t, "1.5", Stringify(1.5))
	assert.Equal(t, "a, 2", Stringify([]any{"a", 2}))
	assert.Equal(t, `{"k":1}`, Stringify(map[string]any{"k": 1}))
	assert.Equal(t, "", Stringify(nil))

	for _, v := range []any{3, int64(3), 3.0, json.Number("3"), " 3 ", uint8(3)} {
		f, ok := ToFloat(v)
		require.True(t, ok, "%T", v)
		assert.Equal(t, 3.0, f)
	}
	_, ok := ToFloat("three")
	assert.False(t, ok)
}

func TestRecordsKeys(t *testing.T) {
	rs := Records{{"b": 1, "a": 2}, {"c": 3}}
	assert.Equal(t, []string{"a", "b", "c"}, rs.Keys())
	assert.Equal(t, []Column{{Key: "a"}, {Key: "b"}, {Key: "c"}}, InferColumns(rs))
}

func TestColumnTitle(t *testing.T) {
	assert.Equal(t, "Due Date", Column{Key: "due_date"}.Title())
	assert.Equal(t, "Name", Column{Key: "owner.name"}.Title())
	assert.Equal(t, "Custom", Column{Key: "x", Label: "Custom"}.Title())

	for key, want := range map[string]string{
		"úroveň":     "Úroveň",
		"école_name": "École Name",
		"název":      "Název",
		"ñame-año":   "Ñame Año",
	} {
		got := Column{Key: key}.Title()
		assert.Equal(t, want, got, key)
		assert.True(t, utf8.ValidString(got), key)
	}
}

func TestModeNext(t *testing.T) {
	assert.Equal(t, ModeCards, ModeTable.Next())
	assert.Equal(t, ModeTable, ModeChart.Next())
	assert.Equal(t, ModeTable, Mode("bogus").Next())
	assert.True(t, ModeList.IsStacked())
	assert.False(t, ModeGrid.IsStacked())
}

func TestPerBreakpoint(t *testing.T) {
	p := PerBreakpoint{Mobile: 1, Tablet: 2, Desktop: 4}
	assert.Equal(t, 1, p.For(viewport.Mobile))
	assert.Equal(t, 2, p.For(viewport.Tablet))
	assert.Equal(t, 4, p.For(viewport.Desktop))
}

const sampleManifest = `
title: Orders
empty_message: Nothing ordered yet
layout:
  mobile: cards
  desktop: table
grid:
  min_item_width: 30
  columns: {mobile: 1, tablet: 2, desktop: 3}
chart:
  kind: bar
  label_key: customer
  value_key: total
columns:
  - key: id
    mobile_hidden: true
  - key: customer
    mobile_order: 1
  - key: total
    format: currency
    align: right
    mobile_order: 2
`

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest([]byte(sampleManifest))
	require.NoError(t, err)

	assert.Equal(t, "Orders", m.Title)
	assert.Equal(t, "Nothing ordered yet", m.Empty())
	assert.Equal(t, ModeCards, m.Layout.Mobile)
	assert.Empty(t, m.Layout.Tablet)
	require.Len(t, m.Columns, 3)
	assert.True(t, m.Columns[0].MobileHidden)
	require.NotNil(t, m.Columns[2].MobileOrder)
	assert.Equal(t, 2, *m.Columns[2].MobileOrder)
	assert.Equal(t, FormatCurrency, m.Columns[2].Format)
	assert.Equal(t, 3, m.Grid.Columns.Desktop)
	assert.True(t, m.Chart.Usable())

	out, err := m.Marshal()
	require.NoError(t, err)
	again, err := ParseManifest(out)
	require.NoError(t, err)
	assert.Equal(t, m.Columns[1].Key, again.Columns[1].Key)
}

func TestManifestValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing key", "columns: [{label: X}]"},
		{"duplicate key", "columns: [{key: a}, {key: a}]"},
		{"bad format", "columns: [{key: a, format: emoji}]"},
		{"bad align", "columns: [{key: a, align: justify}]"},
		{"bad mode", "layout: {mobile: carousel}"},
		{"bad chart", "chart: {kind: pie, value_key: v}"},
		{"negative grid", "grid: {max_columns: -1}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseManifest([]byte(tt.yaml))
			assert.ErrorIs(t, err, ErrInvalidManifest)
		})
	}
}

func TestManifestValidate_ReportsFirstBadLayoutInOrder(t *testing.T) {
	m := &Manifest{Layout: Preferences{Mobile: "carousel", Tablet: "slider", Desktop: "wall"}}
	for range 20 {
		err := m.Validate()
		require.ErrorIs(t, err, ErrInvalidManifest)
		assert.Contains(t, err.Error(), "layout.mobile")
	}

	m.Layout.Mobile = ModeCards
	assert.Contains(t, m.Validate().Error(), "layout.tablet")
}

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "view.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleManifest), 0644))

	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "Orders", m.Title)

	_, err = LoadManifest(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestManifestDefaults(t *testing.T) {
	var m *Manifest
	assert.Equal(t, DefaultEmptyMessage, m.Empty())

	inferred := m.WithInferredColumns(Records{{"x": 1}})
	assert.Equal(t, []Column{{Key: "x"}}, inferred.Columns)

	g := GridSpec{Gap: -3}.Normalized()
	assert.Equal(t, DefaultMinItemWidth, g.MinItemWidth)
	assert.Zero(t, g.Gap)
	assert.Equal(t, DefaultMaxColumns, g.MaxColumns)

	var nilChart *ChartSpec
	assert.False(t, nilChart.Usable())
}
