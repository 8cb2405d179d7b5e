package openlibrary

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// ExtractJSON drops the tab-separated record prefix and returns the line
// from its first '{' onward.
func ExtractJSON(line string) (string, error) {
	idx := strings.IndexByte(line, '{')
	if idx < 0 {
		return "", newLineError(KindMalformedLine, "", nil)
	}
	return line[idx:], nil
}

// DecodeObject parses exactly one JSON object. Numbers are kept as
// json.Number so cover ids round-trip with their literal text.
func DecodeObject(raw string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, newLineError(KindInvalidJSON, "", err)
	}
	if obj == nil {
		return nil, newLineError(KindInvalidJSON, "", errors.New("null is not an object"))
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, newLineError(KindInvalidJSON, "", errors.New("trailing data after object"))
	}
	return obj, nil
}

// ParseLine runs ExtractJSON followed by DecodeObject.
func ParseLine(line string) (map[string]any, error) {
	raw, err := ExtractJSON(line)
	if err != nil {
		return nil, err
	}
	return DecodeObject(raw)
}
