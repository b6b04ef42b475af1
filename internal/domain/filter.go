package domain

import "encoding/json"

const (
	// ServiceTypeUser marks the synthetic node for user-originated traffic
	ServiceTypeUser = "USER"
	// ServiceTypeUnknown marks a call target the agent could not resolve
	ServiceTypeUnknown = "UNKNOWN"
)

// Filter narrows the server map to traffic between two application nodes
type Filter struct {
	FromApplication   string `json:"fromApplication" yaml:"fromApplication"`
	FromServiceType   string `json:"fromServiceType" yaml:"fromServiceType"`
	ToApplication     string `json:"toApplication" yaml:"toApplication"`
	ToServiceType     string `json:"toServiceType" yaml:"toServiceType"`
	IncludeException  bool   `json:"includeException,omitempty" yaml:"includeException,omitempty"`
	RequestURLPattern string `json:"requestUrlPattern,omitempty" yaml:"requestUrlPattern,omitempty"`
	ResponseFrom      int64  `json:"responseFrom,omitempty" yaml:"responseFrom,omitempty"`
	ResponseTo        int64  `json:"responseTo,omitempty" yaml:"responseTo,omitempty"`

	// The application the filtered map is centered on. Not part of the record.
	MainApplication     string `json:"-" yaml:"-"`
	MainServiceTypeName string `json:"-" yaml:"-"`
}

// FilterKey is the identity of a filter for matching purposes
type FilterKey struct {
	FromApplication string
	FromServiceType string
	ToApplication   string
	ToServiceType   string
}

// CanonicalKey builds a FilterKey, collapsing the source application of
// USER-typed traffic to "USER".
func CanonicalKey(fromApp, fromServiceType, toApp, toServiceType string) FilterKey {
	if fromServiceType == ServiceTypeUser {
		fromApp = ServiceTypeUser
	}
	return FilterKey{
		FromApplication: fromApp,
		FromServiceType: fromServiceType,
		ToApplication:   toApp,
		ToServiceType:   toServiceType,
	}
}

// Key returns the canonical identity of the filter
func (f Filter) Key() FilterKey {
	return CanonicalKey(f.FromApplication, f.FromServiceType, f.ToApplication, f.ToServiceType)
}

// Record returns the serialized form stored in a filter list
func (f Filter) Record() json.RawMessage {
	// Only scalar fields, Marshal cannot fail.
	data, _ := EncodeJSON(f)
	return data
}

// FilterList is an ordered sequence of serialized filter records.
// Entries are kept as raw JSON so records written by other clients survive a merge untouched.
type FilterList []json.RawMessage

// RawFilterRecord is the abbreviated, untyped filter shape used by the
// scatter and transaction views. It is intentionally distinct from Filter.
type RawFilterRecord struct {
	FA  string `json:"fa,omitempty"`
	FST string `json:"fst,omitempty"`
	TA  string `json:"ta,omitempty"`
	TST string `json:"tst"`
}

// BucketedValue is one point in an ordered sequence of time-window boundaries
type BucketedValue struct {
	Label string `json:"label" yaml:"label"`
	Count int64  `json:"count,omitempty" yaml:"count,omitempty"`
}
