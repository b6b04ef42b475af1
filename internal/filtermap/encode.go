package filtermap

import (
	"net/url"
	"strings"
)

const upperhex = "0123456789ABCDEF"

// EncodeURIComponent escapes s the way the browser's encodeURIComponent does:
// every UTF-8 byte except A-Z a-z 0-9 and - _ . ! ~ * ' ( ) is percent-encoded.
func EncodeURIComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if uriUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

// DecodeURIComponent reverses EncodeURIComponent
func DecodeURIComponent(s string) (string, error) {
	return url.PathUnescape(s)
}

func uriUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
