package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dicklesworthstone/responsive_viewer/pkg/model"
)

func TestDetailModel_ShowsNamedThenExtraFields(t *testing.T) {
	d := NewDetailModel(testTheme())
	assert.False(t, d.IsVisible())

	rec := model.Record{"id": "ord-9", "customer": "Edsger", "note": "rush", "status": "open"}
	d.Show(rec, sampleManifest().Columns, 60)
	require.True(t, d.IsVisible())

	assert.Contains(t, ansi.Strip(d.View(60, 20)), "Edsger")

	body := strings.Split(ansi.Strip(d.content(rec, sampleManifest().Columns, d.wrapWidth())), "\n")
	require.Len(t, body, 5)
	assert.True(t, strings.HasPrefix(body[0], "Id"))
	assert.Contains(t, body[0], "ord-9")
	assert.True(t, strings.HasPrefix(body[2], "Total"))
	assert.Contains(t, body[2], "—", "missing values show a dash")
	assert.True(t, strings.HasPrefix(body[4], "Note"))

	d.Hide()
	assert.False(t, d.IsVisible())
	assert.Nil(t, d.Record())
}

func TestDetailModel_RendersMarkdownFields(t *testing.T) {
	d := NewDetailModel(testTheme())
	cols := []model.Column{
		{Key: "id"},
		{Key: "note", Format: model.FormatMarkdown},
	}
	rec := model.Record{
		"id":   "ord-9",
		"note": "# Delivery\n\nLeave the parcel with the **neighbour** at number twelve, or at the post office on the corner of the high street if nobody answers.",
	}

	narrow := ansi.Strip(d.content(rec, cols, 30))
	assert.Contains(t, narrow, "Delivery")
	assert.Contains(t, narrow, "neighbour")
	assert.NotContains(t, narrow, "**neighbour**")

	lines := strings.Split(narrow, "\n")
	require.Greater(t, len(lines), 3)
	assert.True(t, strings.HasPrefix(lines[0], "Id"))
	assert.Equal(t, "Note", strings.TrimSpace(lines[1]))

	wide := ansi.Strip(d.content(rec, cols, 120))
	assert.Less(t, len(strings.Split(wide, "\n")), len(lines), "wider panes wrap into fewer lines")
}

func TestDetailModel_SetWidthRewraps(t *testing.T) {
	d := NewDetailModel(testTheme())
	d.SetWidth(80)
	assert.Equal(t, 76, d.wrapWidth())

	d.Show(model.Record{"id": "ord-9"}, sampleManifest().Columns, 50)
	assert.Equal(t, 46, d.wrapWidth())
	d.SetWidth(4)
	assert.Equal(t, 10, d.wrapWidth(), "wrap width has a floor")
}

func TestRecordJSON(t *testing.T) {
	s, err := RecordJSON(model.Record{"b": 2, "a": "x"})
	require.NoError(t, err)
	assert.Equal(t, `{"a":"x","b":2}`, s)
}
