package filtermap

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"servermap/internal/domain"
)

var (
	// ErrNotFilteredMap is returned for an address outside the filtered map
	ErrNotFilteredMap = errors.New("not a filtered map address")
	// ErrMalformedAddress is returned when a filtered map address cannot be decoded
	ErrMalformedAddress = errors.New("malformed filtered map address")
)

// ParsedAddress is a decoded filtered map address. It implements
// domain.NavigationState, so it can seed the next merge.
type ParsedAddress struct {
	MainApplication     string            `json:"mainApplication" yaml:"mainApplication"`
	MainServiceTypeName string            `json:"mainServiceTypeName" yaml:"mainServiceTypeName"`
	Period              string            `json:"period" yaml:"period"`
	EndDateTime         string            `json:"endDateTime" yaml:"endDateTime"`
	Filters             []domain.Filter   `json:"filters" yaml:"filters"`
	ShortHint           *domain.ShortHint `json:"hint,omitempty" yaml:"-"`
	LongHint            *domain.LongHint  `json:"-" yaml:"-"`

	filterJSON string
	hintJSON   string
}

// Filter returns the decoded filter list segment
func (p *ParsedAddress) Filter() string { return p.filterJSON }

// Hint returns the decoded hint segment
func (p *ParsedAddress) Hint() string { return p.hintJSON }

// ReadablePeriod returns the period segment
func (p *ParsedAddress) ReadablePeriod() string { return p.Period }

// QueryEndDateTime returns the end time segment
func (p *ParsedAddress) QueryEndDateTime() string { return p.EndDateTime }

// ParseAddress decodes an address produced by FilteredMapURL. The leading
// "#" is optional.
func (m *Merger) ParseAddress(address string) (*ParsedAddress, error) {
	rest := strings.TrimPrefix(address, "#")
	if !strings.HasPrefix(rest, AddressPrefix[1:]) {
		return nil, ErrNotFilteredMap
	}
	rest = strings.TrimPrefix(rest, AddressPrefix[1:])

	segments := strings.Split(rest, "/")
	if len(segments) != 4 && len(segments) != 5 {
		return nil, fmt.Errorf("%w: expected 4 or 5 segments, got %d", ErrMalformedAddress, len(segments))
	}

	at := strings.LastIndex(segments[0], "@")
	if at < 0 {
		return nil, fmt.Errorf("%w: main application %q has no service type", ErrMalformedAddress, segments[0])
	}

	parsed := &ParsedAddress{
		MainApplication:     segments[0][:at],
		MainServiceTypeName: segments[0][at+1:],
		Period:              segments[1],
		EndDateTime:         segments[2],
	}

	filterJSON, err := DecodeURIComponent(segments[3])
	if err != nil {
		return nil, fmt.Errorf("%w: filter segment: %v", ErrMalformedAddress, err)
	}
	var records domain.FilterList
	if err := json.Unmarshal([]byte(filterJSON), &records); err != nil {
		return nil, fmt.Errorf("%w: filter segment: %v", ErrMalformedAddress, err)
	}
	parsed.filterJSON = filterJSON
	parsed.Filters = make([]domain.Filter, 0, len(records))
	for i, raw := range records {
		f, err := m.parseFilter(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: filter %d: %v", ErrMalformedAddress, i, err)
		}
		f.MainApplication = parsed.MainApplication
		f.MainServiceTypeName = parsed.MainServiceTypeName
		parsed.Filters = append(parsed.Filters, f)
	}

	if len(segments) == 5 {
		hintJSON, err := DecodeURIComponent(segments[4])
		if err != nil {
			return nil, fmt.Errorf("%w: hint segment: %v", ErrMalformedAddress, err)
		}
		short := domain.NewLabelMap[[]any]()
		if err := json.Unmarshal([]byte(hintJSON), short); err != nil {
			return nil, fmt.Errorf("%w: hint segment: %v", ErrMalformedAddress, err)
		}
		parsed.hintJSON = hintJSON
		parsed.ShortHint = short
		parsed.LongHint = ParseShortHintToLongHint(short)
	}

	return parsed, nil
}
