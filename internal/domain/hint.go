package domain

import (
	"encoding/json"
	"fmt"
)

// HintEntry identifies one remote-call type shown for a node
type HintEntry struct {
	RPC                string `json:"rpc" yaml:"rpc"`
	RPCServiceTypeCode int    `json:"rpcServiceTypeCode" yaml:"rpcServiceTypeCode"`
}

// LongHint maps a node label to its hint entries
type LongHint = LabelMap[[]HintEntry]

// ShortHint maps a node label to a flat [rpc, code, rpc, code, ...] sequence.
// It is the wire form of LongHint.
type ShortHint = LabelMap[[]any]

// HintUpdate targets exactly one node label. The zero value means no hint.
type HintUpdate struct {
	Label   string
	Entries []HintEntry
}

// NewHintUpdate creates a hint update for a single label
func NewHintUpdate(label string, entries ...HintEntry) HintUpdate {
	return HintUpdate{Label: label, Entries: entries}
}

// IsZero reports whether the update carries no hint
func (h HintUpdate) IsZero() bool {
	return h.Label == "" && len(h.Entries) == 0
}

// Hint returns the update as a single-key LongHint, or nil when empty
func (h HintUpdate) Hint() *LongHint {
	if h.IsZero() {
		return nil
	}
	long := NewLabelMap[[]HintEntry]()
	long.Set(h.Label, h.Entries)
	return long
}

// MarshalJSON implements json.Marshaler
func (h HintUpdate) MarshalJSON() ([]byte, error) {
	if h.IsZero() {
		return []byte("null"), nil
	}
	return h.Hint().MarshalJSON()
}

// UnmarshalJSON implements json.Unmarshaler
func (h *HintUpdate) UnmarshalJSON(data []byte) error {
	var long LongHint
	if err := long.UnmarshalJSON(data); err != nil {
		return err
	}
	switch long.Len() {
	case 0:
		*h = HintUpdate{}
	case 1:
		label := long.Keys()[0]
		entries, _ := long.Get(label)
		*h = HintUpdate{Label: label, Entries: entries}
	default:
		return fmt.Errorf("hint update must target one label, got %d", long.Len())
	}
	return nil
}

var _ json.Unmarshaler = (*HintUpdate)(nil)
