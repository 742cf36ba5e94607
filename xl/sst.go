package xl

import "math"

// SharedStrings deduplicates literal text across a workbook. Ids are dense and
// assigned in first-insertion order; equal content always maps to the same id.
type SharedStrings struct {
	strings []string
	index   map[string]int
	refs    int // total number of cell references, including repeats
	frozen  bool
}

func newSharedStrings() *SharedStrings {
	return &SharedStrings{
		index: map[string]int{},
	}
}

// Insert returns the id of s, appending it to the table on first use.
func (t *SharedStrings) Insert(s string) (int, error) {
	if i, ok := t.index[s]; ok {
		t.refs++
		return i, nil
	}
	if t.frozen {
		return 0, ErrWorkbookClosed
	}
	if len(t.strings) >= math.MaxInt32 {
		return 0, ErrStringHash
	}
	i := len(t.strings)
	t.strings = append(t.strings, s)
	t.index[s] = i
	t.refs++
	return i, nil
}

// Lookup returns the string stored under id.
func (t *SharedStrings) Lookup(id int) (string, bool) {
	if id < 0 || id >= len(t.strings) {
		return "", false
	}
	return t.strings[id], true
}

// Len is the number of unique strings.
func (t *SharedStrings) Len() int {
	return len(t.strings)
}

// Count is the number of string references made by cells.
func (t *SharedStrings) Count() int {
	return t.refs
}

func (t *SharedStrings) freeze() {
	t.frozen = true
}
