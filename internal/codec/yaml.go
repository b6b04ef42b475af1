package codec

import (
	"fmt"
	"io"
	"time"

	"servermap/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML import/export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// ContentType returns the MIME type of exported documents
func (c *YAMLCodec) ContentType() string {
	return "application/yaml"
}

// yamlViewSet represents the YAML structure for saved views
type yamlViewSet struct {
	Version int        `yaml:"version"`
	Views   []yamlView `yaml:"views"`
}

type yamlView struct {
	ID              string    `yaml:"id,omitempty"`
	Name            string    `yaml:"name"`
	MainApplication string    `yaml:"main_application"`
	MainServiceType string    `yaml:"main_service_type"`
	Period          string    `yaml:"period"`
	EndDateTime     string    `yaml:"end_date_time"`
	Filter          string    `yaml:"filter,omitempty"`
	Hint            string    `yaml:"hint,omitempty"`
	CreatedAt       time.Time `yaml:"created_at,omitempty"`
	UpdatedAt       time.Time `yaml:"updated_at,omitempty"`
}

// Parse imports views from YAML
func (c *YAMLCodec) Parse(r io.Reader) (*domain.ViewSet, error) {
	var ys yamlViewSet
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&ys); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	set := domain.NewViewSet()
	if ys.Version != 0 {
		set.Version = ys.Version
	}

	for _, yv := range ys.Views {
		set.Views = append(set.Views, domain.View{
			ID:                  yv.ID,
			Name:                yv.Name,
			MainApplication:     yv.MainApplication,
			MainServiceTypeName: yv.MainServiceType,
			Navigation: domain.Navigation{
				Filters:     yv.Filter,
				Hints:       yv.Hint,
				Period:      yv.Period,
				EndDateTime: yv.EndDateTime,
			},
			CreatedAt: yv.CreatedAt,
			UpdatedAt: yv.UpdatedAt,
		})
	}

	return set, nil
}

// Export exports views to YAML
func (c *YAMLCodec) Export(set *domain.ViewSet, w io.Writer) error {
	ys := yamlViewSet{
		Version: set.Version,
		Views:   make([]yamlView, 0, len(set.Views)),
	}

	for _, v := range set.Views {
		ys.Views = append(ys.Views, yamlView{
			ID:              v.ID,
			Name:            v.Name,
			MainApplication: v.MainApplication,
			MainServiceType: v.MainServiceTypeName,
			Period:          v.Period,
			EndDateTime:     v.EndDateTime,
			Filter:          v.Filters,
			Hint:            v.Hints,
			CreatedAt:       v.CreatedAt,
			UpdatedAt:       v.UpdatedAt,
		})
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(&ys); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
