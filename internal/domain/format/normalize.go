// Package format implements the MIME normalizer and the format descriptor
// value type shared by the registry and the traversion graph.
package format

import "strings"

// synonyms is a fixed lookup table of MIME aliases. It is
// applied to every handler-declared MIME before it enters the graph and to
// every user-supplied MIME before lookup, so vertex lookup can stay a plain
// string-equality test.
var synonyms = map[string]string{
	"audio/x-wav":                  "audio/wav",
	"audio/wave":                   "audio/wav",
	"audio/vnd.wave":               "audio/wav",
	"audio/x-mpeg":                 "audio/mpeg",
	"audio/mp3":                    "audio/mpeg",
	"audio/x-m4a":                  "audio/mp4",
	"image/x-icon":                 "image/vnd.microsoft.icon",
	"image/x-png":                  "image/png",
	"image/jpg":                    "image/jpeg",
	"image/pjpeg":                  "image/jpeg",
	"application/x-gzip":           "application/gzip",
	"application/x-zip-compressed": "application/zip",
	"application/x-font-ttf":       "font/ttf",
	"application/font-sfnt":        "font/ttf",
	"application/x-font-otf":       "font/otf",
	"application/font-woff":        "font/woff",
	"application/font-woff2":       "font/woff2",
	"video/x-msvideo":              "video/avi",
	"text/xml":                     "application/xml",
	"application/x-yaml":           "application/yaml",
	"text/yaml":                    "application/yaml",
}

// Normalize canonicalizes a raw MIME string. Unknown inputs are returned
// unchanged (lower-cased and trimmed only). Normalize is idempotent:
// Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) string {
	m := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := synonyms[m]; ok {
		return canonical
	}
	return m
}
