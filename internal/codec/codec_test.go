package codec

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"servermap/internal/domain"
)

func sampleSet() *domain.ViewSet {
	set := domain.NewViewSet()
	set.Views = append(set.Views, domain.View{
		ID:                  "7c1d",
		Name:                "checkout <slow>",
		MainApplication:     "frontend",
		MainServiceTypeName: "TOMCAT",
		Navigation: domain.Navigation{
			Filters:     `[{"fromApplication":"frontend","fromServiceType":"TOMCAT","toApplication":"api","toServiceType":"TOMCAT"}]`,
			Hints:       `{"api":["http://api/a?x=1&y=2",9050]}`,
			Period:      "5m",
			EndDateTime: "2024-05-01-10-00-00",
		},
		CreatedAt: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	})
	return set
}

func assertSameViews(t *testing.T, want, got *domain.ViewSet) {
	t.Helper()
	if got.Version != want.Version {
		t.Errorf("Version = %d, want %d", got.Version, want.Version)
	}
	if len(got.Views) != len(want.Views) {
		t.Fatalf("len(Views) = %d, want %d", len(got.Views), len(want.Views))
	}
	for i := range want.Views {
		w, g := want.Views[i], got.Views[i]
		if g.ID != w.ID || g.Name != w.Name || g.MainApplication != w.MainApplication || g.MainServiceTypeName != w.MainServiceTypeName {
			t.Errorf("view %d identity = %+v, want %+v", i, g, w)
		}
		if g.Navigation != w.Navigation {
			t.Errorf("view %d navigation = %+v, want %+v", i, g.Navigation, w.Navigation)
		}
		if !g.CreatedAt.Equal(w.CreatedAt) || !g.UpdatedAt.Equal(w.UpdatedAt) {
			t.Errorf("view %d timestamps = %v/%v", i, g.CreatedAt, g.UpdatedAt)
		}
	}
}

func TestJSONCodec(t *testing.T) {
	c := NewJSONCodec()

	t.Run("round trips views", func(t *testing.T) {
		var buf bytes.Buffer
		if err := c.Export(sampleSet(), &buf); err != nil {
			t.Fatalf("Export() error: %v", err)
		}
		if !strings.Contains(buf.String(), `x=1&y=2`) {
			t.Error("expected ampersands to be written unescaped")
		}

		got, err := c.Parse(&buf)
		if err != nil {
			t.Fatalf("Parse() error: %v", err)
		}
		assertSameViews(t, sampleSet(), got)
	})

	t.Run("navigation fields are flattened", func(t *testing.T) {
		var buf bytes.Buffer
		c.Export(sampleSet(), &buf)
		if !strings.Contains(buf.String(), `"period": "5m"`) {
			t.Errorf("expected flattened period field, got %s", buf.String())
		}
	})

	t.Run("missing views decode as empty", func(t *testing.T) {
		got, err := c.Parse(strings.NewReader(`{"version":1}`))
		if err != nil {
			t.Fatalf("Parse() error: %v", err)
		}
		if got.Views == nil {
			t.Error("expected non-nil Views")
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		if _, err := c.Parse(strings.NewReader(`{`)); err == nil {
			t.Error("expected error for invalid JSON")
		}
	})
}

func TestYAMLCodec(t *testing.T) {
	c := NewYAMLCodec()

	t.Run("round trips views", func(t *testing.T) {
		var buf bytes.Buffer
		if err := c.Export(sampleSet(), &buf); err != nil {
			t.Fatalf("Export() error: %v", err)
		}
		if !strings.Contains(buf.String(), "main_application: frontend") {
			t.Errorf("expected snake_case keys, got:\n%s", buf.String())
		}

		got, err := c.Parse(&buf)
		if err != nil {
			t.Fatalf("Parse() error: %v", err)
		}
		assertSameViews(t, sampleSet(), got)
	})

	t.Run("defaults version", func(t *testing.T) {
		got, err := c.Parse(strings.NewReader("views:\n  - name: a\n    period: 5m\n"))
		if err != nil {
			t.Fatalf("Parse() error: %v", err)
		}
		if got.Version != 1 {
			t.Errorf("Version = %d, want 1", got.Version)
		}
		if len(got.Views) != 1 || got.Views[0].Period != "5m" {
			t.Errorf("Views = %+v", got.Views)
		}
	})

	t.Run("invalid YAML", func(t *testing.T) {
		if _, err := c.Parse(strings.NewReader("views: [")); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})
}

func TestLookup(t *testing.T) {
	tests := []struct {
		format string
		want   string
		ok     bool
	}{
		{"json", "json", true},
		{"yaml", "yaml", true},
		{"yml", "yaml", true},
		{"ansible-inventory", "", false},
	}

	for _, tt := range tests {
		c, ok := Lookup(tt.format)
		if ok != tt.ok {
			t.Errorf("Lookup(%q) ok = %v, want %v", tt.format, ok, tt.ok)
			continue
		}
		if ok && c.Format() != tt.want {
			t.Errorf("Lookup(%q).Format() = %s, want %s", tt.format, c.Format(), tt.want)
		}
	}
}
