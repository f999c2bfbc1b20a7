package editor

// HistoryRing is the in-memory ordered sequence of submitted input strings
// described in spec.md §4.3: capped at a configured limit, with adjacent
// duplicates coalesced.
type HistoryRing struct {
	entries []string
	limit   int
}

// NewHistoryRing creates a ring capped at limit entries. A non-positive
// limit means unbounded.
func NewHistoryRing(limit int) *HistoryRing {
	return &HistoryRing{limit: limit}
}

// Record appends s unless it equals the most recent entry.
func (h *HistoryRing) Record(s string) {
	if len(h.entries) > 0 && h.entries[len(h.entries)-1] == s {
		return
	}
	h.entries = append(h.entries, s)
	if h.limit > 0 && len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
}

// Len returns the number of entries currently held.
func (h *HistoryRing) Len() int {
	return len(h.entries)
}

// At returns the entry at index i (0 = oldest).
func (h *HistoryRing) At(i int) string {
	return h.entries[i]
}

// Entries returns a copy of the ring contents, oldest first.
func (h *HistoryRing) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Load replaces the ring contents wholesale, e.g. from a persisted history
// store at startup. Entries beyond the configured limit are dropped from
// the front.
func (h *HistoryRing) Load(entries []string) {
	h.entries = append([]string{}, entries...)
	if h.limit > 0 && len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
}
