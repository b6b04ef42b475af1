// Package filtermap maintains the filter state of the filtered server map.
//
// A filtered map address carries two pieces of accumulated state: a list of
// application-to-application filters and a per-node hint narrowing the
// remote-call types shown. Merger folds a newly selected filter or hint into
// that state without duplicating entries and assembles the resulting address.
//
// All operations are pure. A Merger holds no mutable state and may be shared
// between goroutines.
package filtermap

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"servermap/internal/domain"
)

// AddressPrefix starts every filtered map address
const AddressPrefix = "#/filteredMap/"

// ParseFilterFunc builds the typed view of one serialized filter record
type ParseFilterFunc func(raw json.RawMessage) (domain.Filter, error)

// EncodeFunc makes a string safe to embed as one address segment
type EncodeFunc func(string) string

// Match is a filter found in a previously serialized list
type Match struct {
	Filter domain.Filter
	Index  int
}

// Merger merges filters and hints into navigation state
type Merger struct {
	parseFilter ParseFilterFunc
	encode      EncodeFunc
	logger      *zap.Logger
}

// Option configures a Merger
type Option func(*Merger)

// WithFilterParser overrides how stored filter records are decoded
func WithFilterParser(fn ParseFilterFunc) Option {
	return func(m *Merger) {
		m.parseFilter = fn
	}
}

// WithEncoder overrides the address segment encoder
func WithEncoder(fn EncodeFunc) Option {
	return func(m *Merger) {
		m.encode = fn
	}
}

// WithLogger sets the logger used to report ignored state
func WithLogger(logger *zap.Logger) Option {
	return func(m *Merger) {
		m.logger = logger
	}
}

// New creates a Merger. Without options it decodes records as JSON and
// encodes segments the way encodeURIComponent does.
func New(opts ...Option) *Merger {
	m := &Merger{
		parseFilter: ParseFilterRecord,
		encode:      EncodeURIComponent,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ParseFilterRecord decodes a serialized filter record
func ParseFilterRecord(raw json.RawMessage) (domain.Filter, error) {
	var f domain.Filter
	err := json.Unmarshal(raw, &f)
	return f, err
}

// MergeFilters adds newFilter to the filter list carried by nav. A stored
// filter with the same canonical identity is replaced at its position;
// otherwise newFilter is appended.
func (m *Merger) MergeFilters(nav domain.NavigationState, newFilter domain.Filter) domain.FilterList {
	prev, ok := m.previousFilters(nav)
	if !ok {
		return domain.FilterList{newFilter.Record()}
	}

	merged := make(domain.FilterList, len(prev), len(prev)+1)
	copy(merged, prev)

	if match, found := m.findIn(prev, newFilter.Key()); found {
		merged[match.Index] = newFilter.Record()
		return merged
	}
	return append(merged, newFilter.Record())
}

// FindFilter looks up a filter in the list carried by nav. Only the first
// matching entry is reported.
func (m *Merger) FindFilter(fromApp, fromServiceType, toApp, toServiceType string, nav domain.NavigationState) (Match, bool) {
	prev, ok := m.previousFilters(nav)
	if !ok {
		return Match{}, false
	}
	return m.findIn(prev, domain.CanonicalKey(fromApp, fromServiceType, toApp, toServiceType))
}

func (m *Merger) findIn(list domain.FilterList, key domain.FilterKey) (Match, bool) {
	for i, raw := range list {
		f, err := m.parseFilter(raw)
		if err != nil {
			m.logger.Debug("skipping unreadable filter record",
				zap.Int("index", i), zap.Error(err))
			continue
		}
		if f.Key() == key {
			return Match{Filter: f, Index: i}, true
		}
	}
	return Match{}, false
}

// previousFilters decodes the filter list carried by nav. Anything that is
// not a JSON array counts as absent.
func (m *Merger) previousFilters(nav domain.NavigationState) (domain.FilterList, bool) {
	if nav == nil || nav.Filter() == "" {
		return nil, false
	}
	var list domain.FilterList
	if err := json.Unmarshal([]byte(nav.Filter()), &list); err != nil {
		m.logger.Debug("ignoring previous filter state", zap.Error(err))
		return nil, false
	}
	if list == nil {
		return nil, false
	}
	return list, true
}

// FiltersHaveUnknownNode reports whether any record targets an UNKNOWN node
func FiltersHaveUnknownNode(records []domain.RawFilterRecord) bool {
	for _, r := range records {
		if r.TST == domain.ServiceTypeUnknown {
			return true
		}
	}
	return false
}

// FilteredMapURL builds the address of the filtered map that results from
// applying newFilter and update to nav. The hint segment is present only
// when nav or update carries a hint.
func (m *Merger) FilteredMapURL(nav domain.NavigationState, newFilter domain.Filter, update domain.HintUpdate) (string, error) {
	filters, err := domain.EncodeJSON(m.MergeFilters(nav, newFilter))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(AddressPrefix)
	b.WriteString(newFilter.MainApplication)
	b.WriteByte('@')
	b.WriteString(newFilter.MainServiceTypeName)
	b.WriteByte('/')
	b.WriteString(navPeriod(nav))
	b.WriteByte('/')
	b.WriteString(navEndDateTime(nav))
	b.WriteByte('/')
	b.WriteString(m.encode(string(filters)))

	if navHint(nav) != "" || !update.IsZero() {
		short := ParseLongHintToShortHint(m.MergeHints(nav, update))
		hint, err := domain.EncodeJSON(short)
		if err != nil {
			return "", err
		}
		b.WriteByte('/')
		b.WriteString(m.encode(string(hint)))
	}

	return b.String(), nil
}

func navHint(nav domain.NavigationState) string {
	if nav == nil {
		return ""
	}
	return nav.Hint()
}

func navPeriod(nav domain.NavigationState) string {
	if nav == nil {
		return ""
	}
	return nav.ReadablePeriod()
}

func navEndDateTime(nav domain.NavigationState) string {
	if nav == nil {
		return ""
	}
	return nav.QueryEndDateTime()
}
