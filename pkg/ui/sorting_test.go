package ui

import (
	"testing"

	"github.com/Dicklesworthstone/responsive_viewer/pkg/model"
)

func TestSortRecords(t *testing.T) {
	rs := model.Records{
		{"id": "c", "n": 10},
		{"id": "a", "n": 2},
		{"id": "x"},
		{"id": "B", "n": "2.5"},
	}

	tests := []struct {
		name string
		spec SortSpec
		want []string
	}{
		{"no sort keeps order", SortSpec{}, []string{"c", "a", "x", "B"}},
		{"numeric ascending", SortSpec{Key: "n"}, []string{"a", "B", "c", "x"}},
		{"numeric descending keeps missing last", SortSpec{Key: "n", Desc: true}, []string{"c", "B", "a", "x"}},
		{"text case-insensitive", SortSpec{Key: "id"}, []string{"a", "B", "c", "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SortRecords(rs, tt.spec)
			for i, id := range tt.want {
				if got[i]["id"] != id {
					t.Fatalf("position %d: got %v, want %s", i, got[i]["id"], id)
				}
			}
		})
	}
	if rs[0]["id"] != "c" {
		t.Error("input was reordered")
	}
}

func TestNextSort(t *testing.T) {
	cols := []model.Column{{Key: "a"}, {Key: "b"}}
	steps := []SortSpec{
		{Key: "a"},
		{Key: "a", Desc: true},
		{Key: "b"},
		{Key: "b", Desc: true},
		{},
	}
	cur := SortSpec{}
	for i, want := range steps {
		cur = NextSort(cur, cols)
		if cur != want {
			t.Fatalf("step %d: got %+v, want %+v", i, cur, want)
		}
	}
	if NextSort(SortSpec{Key: "a"}, nil).Active() {
		t.Error("no columns means no sort")
	}
}
