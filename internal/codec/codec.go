package codec

import (
	"io"

	"servermap/internal/domain"
)

// Importer interface for importing saved views from various formats
type Importer interface {
	Parse(r io.Reader) (*domain.ViewSet, error)
	Format() string
}

// Exporter interface for exporting saved views to various formats
type Exporter interface {
	Export(set *domain.ViewSet, w io.Writer) error
	Format() string
}

// Codec both imports and exports one format
type Codec interface {
	Importer
	Exporter
	ContentType() string
}

// Lookup returns the codec registered for format
func Lookup(format string) (Codec, bool) {
	switch format {
	case "json":
		return NewJSONCodec(), true
	case "yaml", "yml":
		return NewYAMLCodec(), true
	}
	return nil, false
}
