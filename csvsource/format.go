package csvsource

import (
	"fmt"

	tabler "github.com/domonda/go-tabler"
)

// Format of CSV data.
// Empty fields are detected from the data.
type Format struct {
	// Encoding like "UTF-8", "UTF-16LE", "ISO 8859-1",
	// "Windows 1252" or "Macintosh".
	Encoding string `yaml:"encoding"`
	// Separator is a single character, typically ",", ";" or "\t".
	Separator string `yaml:"separator"`
}

func (f *Format) Validate() error {
	if len([]rune(f.Separator)) > 1 {
		return fmt.Errorf("invalid csv separator %q: %w", f.Separator, tabler.ErrInvalidOptions)
	}
	switch f.Separator {
	case "\r", "\n", `"`:
		return fmt.Errorf("invalid csv separator %q: %w", f.Separator, tabler.ErrInvalidOptions)
	}
	return nil
}

// DetectionEncodings are tested in order
// if Format.Encoding is empty.
var DetectionEncodings = []string{
	"UTF-8",
	"UTF-16LE",
	"ISO 8859-1",
	"Windows 1252", // like ANSI
	"Macintosh",
}

// EncodingTests contain characters with different
// byte representations across DetectionEncodings.
var EncodingTests = []string{
	"ä", "Ä", "ö", "Ö", "ü", "Ü", "ß", "§", "€",
	"д", "Д", "ъ", "Ъ", "б", "Б", "л", "Л", "и", "И", "ж",
}
