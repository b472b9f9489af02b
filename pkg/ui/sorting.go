package ui

import (
	"sort"
	"strings"

	"github.com/Dicklesworthstone/responsive_viewer/pkg/model"
)

// SortSpec orders records by one field.
type SortSpec struct {
	Key  string
	Desc bool
}

// Active reports whether the spec sorts anything.
func (s SortSpec) Active() bool {
	return s.Key != ""
}

// SortRecords returns a sorted copy of rs. Numbers compare numerically,
// everything else case-insensitively; records missing the field sort last
// in either direction. Equal keys keep their input order.
func SortRecords(rs model.Records, spec SortSpec) model.Records {
	out := make(model.Records, len(rs))
	copy(out, rs)
	if !spec.Active() {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		c, ok := compareField(out[i], out[j], spec.Key)
		if !ok {
			return c < 0
		}
		if spec.Desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

// compareField returns -1, 0 or 1. ok is false when one side lacks the
// field; the result then puts the missing side last.
func compareField(a, b model.Record, key string) (int, bool) {
	av, aok := a.Field(key)
	bv, bok := b.Field(key)
	switch {
	case !aok && !bok:
		return 0, false
	case !aok:
		return 1, false
	case !bok:
		return -1, false
	}
	af, afok := model.ToFloat(av)
	bf, bfok := model.ToFloat(bv)
	if afok && bfok {
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		}
		return 0, true
	}
	return strings.Compare(strings.ToLower(model.Stringify(av)), strings.ToLower(model.Stringify(bv))), true
}

// NextSort cycles the sort through cols: ascending, descending, then the
// next column, and finally off.
func NextSort(cur SortSpec, cols []model.Column) SortSpec {
	if len(cols) == 0 {
		return SortSpec{}
	}
	if !cur.Active() {
		return SortSpec{Key: cols[0].Key}
	}
	if !cur.Desc {
		return SortSpec{Key: cur.Key, Desc: true}
	}
	for i, c := range cols {
		if c.Key == cur.Key && i+1 < len(cols) {
			return SortSpec{Key: cols[i+1].Key}
		}
	}
	return SortSpec{}
}
