package countries

import (
	"reflect"
	"testing"
)

func TestExtractNames(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected []string
	}{
		{
			name:     "nested common name",
			body:     `[{"name":{"common":"Vietnam","official":"Socialist Republic of Vietnam"}},{"name":{"common":"Japan"}}]`,
			expected: []string{"Vietnam", "Japan"},
		},
		{
			name:     "flat name",
			body:     `[{"name":"Viet Nam"},{"name":"Japan"}]`,
			expected: []string{"Viet Nam", "Japan"},
		},
		{
			name:     "mixed shapes keep order",
			body:     `[{"name":"Åland Islands"},{"name":{"common":"Côte d'Ivoire"}}]`,
			expected: []string{"Åland Islands", "Côte d'Ivoire"},
		},
		{
			name:     "unusable entries skipped",
			body:     `[42,"Peru",{"name":null},{"name":{"official":"x"}},{"name":""},{"name":7},{"other":"y"},{"name":"Chile"}]`,
			expected: []string{"Chile"},
		},
		{
			name:     "empty array",
			body:     `[]`,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractNames([]byte(tt.body))
			if err != nil {
				t.Fatalf("extract: %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Fatalf("got %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestExtractNamesRejectsNonArray(t *testing.T) {
	for _, body := range []string{`{"status":404}`, `not json`, ``} {
		if _, err := ExtractNames([]byte(body)); err == nil {
			t.Fatalf("expected error for %q", body)
		}
	}
}
