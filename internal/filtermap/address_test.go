package filtermap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"servermap/internal/domain"
)

func TestEncodeURIComponent(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"AZaz09-_.!~*'()", "AZaz09-_.!~*'()"},
		{"a b", "a%20b"},
		{"a/b@c", "a%2Fb%40c"},
		{`{"a":1}`, "%7B%22a%22%3A1%7D"},
		{"[1,2]", "%5B1%2C2%5D"},
		{"é", "%C3%A9"},
		{"50%", "50%25"},
	}

	for _, tt := range tests {
		if got := EncodeURIComponent(tt.input); got != tt.want {
			t.Errorf("EncodeURIComponent(%q) = %q, want %q", tt.input, got, tt.want)
		}
		decoded, err := DecodeURIComponent(tt.want)
		if err != nil {
			t.Errorf("DecodeURIComponent(%q) error: %v", tt.want, err)
		}
		if decoded != tt.input {
			t.Errorf("DecodeURIComponent(%q) = %q, want %q", tt.want, decoded, tt.input)
		}
	}
}

func TestParseAddress(t *testing.T) {
	m := New()

	t.Run("round trips a composed address", func(t *testing.T) {
		nav := domain.Navigation{Period: "5m", EndDateTime: "1620000000000"}
		update := domain.NewHintUpdate("B", domain.HintEntry{RPC: "http://b/api", RPCServiceTypeCode: 9050})
		address, err := m.FilteredMapURL(nav, tomcatFilter("A", "B"), update)
		require.NoError(t, err)

		parsed, err := m.ParseAddress(address)
		require.NoError(t, err)
		assert.Equal(t, "A", parsed.MainApplication)
		assert.Equal(t, "TOMCAT", parsed.MainServiceTypeName)
		assert.Equal(t, "5m", parsed.ReadablePeriod())
		assert.Equal(t, "1620000000000", parsed.QueryEndDateTime())
		require.Len(t, parsed.Filters, 1)
		assert.Equal(t, tomcatFilter("A", "B"), parsed.Filters[0])

		entries, ok := parsed.LongHint.Get("B")
		require.True(t, ok)
		assert.Equal(t, []domain.HintEntry{{RPC: "http://b/api", RPCServiceTypeCode: 9050}}, entries)
	})

	t.Run("parsed address seeds the next merge", func(t *testing.T) {
		nav := domain.Navigation{Period: "5m", EndDateTime: "1"}
		first, err := m.FilteredMapURL(nav, tomcatFilter("A", "B"), domain.HintUpdate{})
		require.NoError(t, err)
		parsed, err := m.ParseAddress(first)
		require.NoError(t, err)

		second, err := m.FilteredMapURL(parsed, tomcatFilter("A", "B"), domain.HintUpdate{})
		require.NoError(t, err)
		assert.Equal(t, first, second)

		third, err := m.FilteredMapURL(parsed, tomcatFilter("B", "C"), domain.HintUpdate{})
		require.NoError(t, err)
		reparsed, err := m.ParseAddress(third)
		require.NoError(t, err)
		assert.Len(t, reparsed.Filters, 2)
		assert.Nil(t, reparsed.ShortHint)
	})

	t.Run("accepts address without leading hash", func(t *testing.T) {
		parsed, err := m.ParseAddress("/filteredMap/A@TOMCAT/5m/1/%5B%5D")
		require.NoError(t, err)
		assert.Empty(t, parsed.Filters)
	})

	errorCases := []struct {
		name    string
		address string
		want    error
	}{
		{"foreign fragment", "#/main/A@TOMCAT/5m/1", ErrNotFilteredMap},
		{"too few segments", "#/filteredMap/A@TOMCAT/5m/1", ErrMalformedAddress},
		{"too many segments", "#/filteredMap/A@TOMCAT/5m/1/%5B%5D/%7B%7D/x", ErrMalformedAddress},
		{"missing service type", "#/filteredMap/A/5m/1/%5B%5D", ErrMalformedAddress},
		{"filter segment not json", "#/filteredMap/A@TOMCAT/5m/1/abc", ErrMalformedAddress},
		{"filter segment not array", "#/filteredMap/A@TOMCAT/5m/1/%7B%7D", ErrMalformedAddress},
		{"bad escape", "#/filteredMap/A@TOMCAT/5m/1/%ZZ", ErrMalformedAddress},
		{"hint segment not object", "#/filteredMap/A@TOMCAT/5m/1/%5B%5D/%5B%5D", ErrMalformedAddress},
	}

	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.ParseAddress(tt.address)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}
