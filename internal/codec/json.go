package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"servermap/internal/domain"
)

// JSONCodec handles JSON import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// ContentType returns the MIME type of exported documents
func (c *JSONCodec) ContentType() string {
	return "application/json"
}

// Parse imports views from JSON
func (c *JSONCodec) Parse(r io.Reader) (*domain.ViewSet, error) {
	var set domain.ViewSet
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&set); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if set.Views == nil {
		set.Views = make([]domain.View, 0)
	}

	return &set, nil
}

// Export exports views to JSON
func (c *JSONCodec) Export(set *domain.ViewSet, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(set); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
