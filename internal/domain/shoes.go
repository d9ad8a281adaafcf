package domain

import "unicode/utf8"

// ShoeEntry one shoe-size record bound to one player slot
type ShoeEntry struct {
	ID   string
	Size string
}

// ShoeEntryList ordered collection of shoe entries.
// Entries are matched to players by position and removed by ID.
type ShoeEntryList struct {
	entries []ShoeEntry
}

// NewShoeEntryList creates a list from the given entries (copied)
func NewShoeEntryList(entries ...ShoeEntry) ShoeEntryList {
	return ShoeEntryList{entries: append([]ShoeEntry(nil), entries...)}
}

// Add appends a new entry with an empty size.
// Duplicate IDs are not rejected.
func (l *ShoeEntryList) Add(id string) {
	l.entries = append(l.entries, ShoeEntry{ID: id})
}

// Remove removes the first entry with the given ID.
// Returns false if no entry matched; the list is left unchanged in that case.
func (l *ShoeEntryList) Remove(id string) bool {
	idx := l.indexOf(id)
	if idx < 0 {
		return false
	}

	entries := make([]ShoeEntry, 0, len(l.entries)-1)
	entries = append(entries, l.entries[:idx]...)
	entries = append(entries, l.entries[idx+1:]...)
	l.entries = entries
	return true
}

// SetSize replaces the size of the first entry with the given ID.
// Values whose length is neither 0 nor ShoeSizeLength are silently dropped.
// Returns true if the stored size was replaced.
func (l *ShoeEntryList) SetSize(id, value string) bool {
	if !IsAcceptedShoeSize(value) {
		return false
	}

	idx := l.indexOf(id)
	if idx < 0 {
		return false
	}

	l.entries[idx].Size = value
	return true
}

// AllSizesFilled returns true if every entry has a non-empty size (vacuously true for empty list)
func (l *ShoeEntryList) AllSizesFilled() bool {
	for _, e := range l.entries {
		if len(e.Size) == 0 {
			return false
		}
	}
	return true
}

// Count returns the number of entries
func (l *ShoeEntryList) Count() int {
	return len(l.entries)
}

// Get returns the entry with the given ID
func (l *ShoeEntryList) Get(id string) (ShoeEntry, bool) {
	idx := l.indexOf(id)
	if idx < 0 {
		return ShoeEntry{}, false
	}
	return l.entries[idx], true
}

// Entries returns a copy of the entries in list order
func (l *ShoeEntryList) Entries() []ShoeEntry {
	entries := make([]ShoeEntry, len(l.entries))
	copy(entries, l.entries)
	return entries
}

// Sizes returns the sizes in list order
func (l *ShoeEntryList) Sizes() []string {
	sizes := make([]string, len(l.entries))
	for i, e := range l.entries {
		sizes[i] = e.Size
	}
	return sizes
}

// Clone returns a deep copy of the list
func (l ShoeEntryList) Clone() ShoeEntryList {
	return NewShoeEntryList(l.entries...)
}

func (l *ShoeEntryList) indexOf(id string) int {
	for i, e := range l.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// IsAcceptedShoeSize returns true if the value may be stored as a shoe size.
// Length is counted in code points, not UTF-16 units: a single emoji is one
// character here and is rejected.
func IsAcceptedShoeSize(value string) bool {
	n := utf8.RuneCountInString(value)
	return n == 0 || n == ShoeSizeLength
}
