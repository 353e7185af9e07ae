// Package countries resolves the reference list of country names used to
// enrich scraped books.
package countries

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// countryName accepts either a flat string or an object carrying a common name.
type countryName string

func (n *countryName) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*n = ""
		return nil
	case data[0] == '"':
		var flat string
		if err := json.Unmarshal(data, &flat); err != nil {
			return err
		}
		*n = countryName(flat)
		return nil
	case data[0] == '{':
		var nested struct {
			Common string `json:"common"`
		}
		if err := json.Unmarshal(data, &nested); err != nil {
			return err
		}
		*n = countryName(nested.Common)
		return nil
	default:
		return fmt.Errorf("unsupported country name %s", data)
	}
}

type countryEntry struct {
	Name countryName `json:"name"`
}

// ExtractNames returns the country names found in a reference response, in
// response order. Entries that are not objects or carry no usable name are
// skipped.
func ExtractNames(body []byte) ([]string, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("decode country list: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, raw := range entries {
		var entry countryEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			continue
		}
		if name := strings.TrimSpace(string(entry.Name)); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}
