package filtermap

import (
	"encoding/json"
	"fmt"
	"strconv"
	"unicode"

	"go.uber.org/zap"

	"servermap/internal/domain"
)

// MergeHints folds update into the hint carried by nav. Entries for an
// existing label are unioned, previous entries first, with duplicates removed.
// A hint with no previous state is returned as given.
func (m *Merger) MergeHints(nav domain.NavigationState, update domain.HintUpdate) *domain.LongHint {
	prev := m.previousHint(nav)
	if prev == nil {
		if update.IsZero() {
			return domain.NewLabelMap[[]domain.HintEntry]()
		}
		return update.Hint()
	}
	if update.IsZero() {
		return prev
	}

	merged := prev.Clone()
	if existing, ok := merged.Get(update.Label); ok {
		union := make([]domain.HintEntry, 0, len(existing)+len(update.Entries))
		union = append(union, existing...)
		union = append(union, update.Entries...)
		merged.Set(update.Label, UniqueHintValue(union))
	} else {
		merged.Set(update.Label, update.Entries)
	}
	return merged
}

func (m *Merger) previousHint(nav domain.NavigationState) *domain.LongHint {
	raw := navHint(nav)
	if raw == "" {
		return nil
	}
	var short *domain.ShortHint
	if err := json.Unmarshal([]byte(raw), &short); err != nil {
		m.logger.Debug("ignoring previous hint state", zap.Error(err))
		return nil
	}
	if short == nil {
		return nil
	}
	return ParseShortHintToLongHint(short)
}

// UniqueHintValue drops later entries repeating an earlier (rpc, code) pair
func UniqueHintValue(entries []domain.HintEntry) []domain.HintEntry {
	out := make([]domain.HintEntry, 0, len(entries))
	for _, e := range entries {
		dup := false
		for _, kept := range out {
			if kept == e {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, e)
		}
	}
	return out
}

// ParseShortHintToLongHint pairs up each flat sequence into hint entries.
// Sequences must have even length; a trailing rpc gets code 0.
func ParseShortHintToLongHint(short *domain.ShortHint) *domain.LongHint {
	long := domain.NewLabelMap[[]domain.HintEntry]()
	for _, label := range short.Keys() {
		flat, _ := short.Get(label)
		entries := make([]domain.HintEntry, 0, (len(flat)+1)/2)
		for i := 0; i < len(flat); i += 2 {
			entry := domain.HintEntry{RPC: hintString(flat[i])}
			if i+1 < len(flat) {
				entry.RPCServiceTypeCode = hintCode(flat[i+1])
			}
			entries = append(entries, entry)
		}
		long.Set(label, entries)
	}
	return long
}

// ParseLongHintToShortHint flattens each label's entries into [rpc, code, ...]
func ParseLongHintToShortHint(long *domain.LongHint) *domain.ShortHint {
	short := domain.NewLabelMap[[]any]()
	for _, label := range long.Keys() {
		entries, _ := long.Get(label)
		flat := make([]any, 0, len(entries)*2)
		for _, e := range entries {
			flat = append(flat, e.RPC, e.RPCServiceTypeCode)
		}
		short.Set(label, flat)
	}
	return short
}

func hintString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprint(s)
	}
}

func hintCode(v any) int {
	switch c := v.(type) {
	case int:
		return c
	case int64:
		return int(c)
	case float64:
		return int(c)
	case json.Number:
		n, _ := c.Int64()
		return int(n)
	case string:
		n, _ := strconv.Atoi(c)
		return n
	default:
		return 0
	}
}

// StartValueForLabel returns the lower bound of the bucket labeled label:
// the numeric value of the preceding bucket's label. The first bucket and
// unknown labels start at 0.
func StartValueForLabel(label string, values []domain.BucketedValue) int {
	idx := -1
	for i, v := range values {
		if v.Label == label {
			idx = i
			break
		}
	}
	if idx <= 0 {
		return 0
	}
	return leadingInt(values[idx-1].Label)
}

// leadingInt parses the base-10 integer prefix of s, so "3s" yields 3.
// Labels without a numeric prefix yield 0.
func leadingInt(s string) int {
	i := 0
	for i < len(s) && unicode.IsSpace(rune(s[i])) {
		i++
	}
	start := i
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	digits := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == digits {
		return 0
	}
	n, err := strconv.Atoi(s[start:i])
	if err != nil {
		return 0
	}
	return n
}
