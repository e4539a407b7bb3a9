package boq

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
)

var ErrNoJSON = errors.New("no json value in text")

// ExtractJSON returns the first JSON object or array in text, ignoring markdown
// fences and any prose before or after it.
func ExtractJSON(text string) (json.RawMessage, error) {
	var lastErr error
	for offset := 0; offset < len(text); {
		i := strings.IndexAny(text[offset:], "{[")
		if i < 0 {
			break
		}
		start := offset + i

		dec := json.NewDecoder(strings.NewReader(text[start:]))
		var raw json.RawMessage
		err := dec.Decode(&raw)
		if err == nil {
			return bytes.TrimSpace(raw), nil
		}
		// a truncated value will not parse from any later offset either
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errors.Join(ErrNoJSON, err)
		}
		lastErr = err
		offset = start + 1
	}
	if lastErr != nil {
		return nil, errors.Join(ErrNoJSON, lastErr)
	}
	return nil, ErrNoJSON
}

// DecodeLoose extracts and decodes the first JSON value in text into a generic tree.
// Numbers are kept as json.Number.
func DecodeLoose(text string) (any, error) {
	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
