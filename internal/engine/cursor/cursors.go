package cursor

import "sort"

// CursorSet holds an ordered set of selections with one primary selection.
type CursorSet struct {
	selections []Selection
	primary    int
}

// NewCursorSet creates a cursor set with a single selection.
func NewCursorSet(initial Selection) *CursorSet {
	return &CursorSet{selections: []Selection{initial}}
}

// NewCursorSetFromSlice creates a cursor set from selections. The first
// selection becomes the primary one. An empty slice yields a cursor at 0.
func NewCursorSetFromSlice(selections []Selection) *CursorSet {
	if len(selections) == 0 {
		return NewCursorSet(NewCursorSelection(0))
	}
	cs := &CursorSet{selections: append([]Selection(nil), selections...)}
	first := selections[0]
	cs.normalize()
	cs.primary = cs.indexCovering(first)
	return cs
}

// Primary returns the primary selection.
func (cs *CursorSet) Primary() Selection {
	return cs.selections[cs.primary]
}

// All returns a copy of all selections in position order.
func (cs *CursorSet) All() []Selection {
	out := make([]Selection, len(cs.selections))
	copy(out, cs.selections)
	return out
}

// Count returns the number of selections.
func (cs *CursorSet) Count() int {
	return len(cs.selections)
}

// Add adds a selection, merging it with any selection it overlaps.
func (cs *CursorSet) Add(sel Selection) {
	primary := cs.Primary()
	cs.selections = append(cs.selections, sel)
	cs.normalize()
	cs.primary = cs.indexCovering(primary)
}

// MapInPlace applies f to every selection and re-normalizes the set.
func (cs *CursorSet) MapInPlace(f func(sel Selection) Selection) {
	for i, sel := range cs.selections {
		cs.selections[i] = f(sel)
	}
	primary := cs.selections[cs.primary]
	cs.normalize()
	cs.primary = cs.indexCovering(primary)
}

// Clamp clamps every selection to [0, maxOffset].
func (cs *CursorSet) Clamp(maxOffset CharOffset) {
	cs.MapInPlace(func(sel Selection) Selection {
		return sel.Clamp(maxOffset)
	})
}

// Clone returns an independent copy of the set.
func (cs *CursorSet) Clone() *CursorSet {
	return &CursorSet{
		selections: cs.All(),
		primary:    cs.primary,
	}
}

// Equals returns true if two cursor sets have the same selections.
func (cs *CursorSet) Equals(other *CursorSet) bool {
	if other == nil || cs.Count() != other.Count() {
		return false
	}
	for i, sel := range cs.selections {
		if sel != other.selections[i] {
			return false
		}
	}
	return true
}

// normalize sorts selections and merges overlapping ones.
func (cs *CursorSet) normalize() {
	if len(cs.selections) <= 1 {
		return
	}

	sort.SliceStable(cs.selections, func(i, j int) bool {
		si, sj := cs.selections[i].From(), cs.selections[j].From()
		if si != sj {
			return si < sj
		}
		return cs.selections[i].To() > cs.selections[j].To()
	})

	merged := cs.selections[:1]
	for _, sel := range cs.selections[1:] {
		last := &merged[len(merged)-1]
		if sel.Overlaps(*last) || sel == *last {
			*last = last.Merge(sel)
		} else {
			merged = append(merged, sel)
		}
	}
	cs.selections = merged
}

// indexCovering returns the index of the selection that contains sel after
// normalization, falling back to the first selection.
func (cs *CursorSet) indexCovering(sel Selection) int {
	for i, s := range cs.selections {
		if s.From() <= sel.From() && sel.To() <= s.To() {
			return i
		}
	}
	return 0
}
