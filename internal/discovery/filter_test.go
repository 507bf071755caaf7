package discovery

import (
	"testing"
)

func TestFilter_FilterByName(t *testing.T) {
	tests := []struct {
		name     string
		tests    []string
		pattern  string
		expected int // Expected number of matches
	}{
		{
			name:     "empty pattern returns all",
			tests:    []string{"branch.cton", "call.cton", "abi.cton"},
			pattern:  "",
			expected: 3,
		},
		{
			name:     "wildcard pattern matches suffix",
			tests:    []string{"branch.cton", "call.cton", "abi.cton"},
			pattern:  "*branch.cton",
			expected: 1,
		},
		{
			name:     "wildcard pattern matches substring",
			tests:    []string{"branch.cton", "call.cton", "call_indirect.cton", "abi.cton"},
			pattern:  "*call*",
			expected: 2,
		},
		{
			name:     "simple contains match",
			tests:    []string{"branch.cton", "call.cton", "abi.cton"},
			pattern:  "bra",
			expected: 1,
		},
		{
			name:     "no matches",
			tests:    []string{"branch.cton", "call.cton"},
			pattern:  "*nothing*",
			expected: 0,
		},
		{
			name:     "full path with wildcard",
			tests:    []string{"/suite/isa/branch.cton", "/suite/isa/call.cton"},
			pattern:  "*branch.cton",
			expected: 1,
		},
		{
			name:     "pattern only matches the file name",
			tests:    []string{"/suite/isa/branch.cton"},
			pattern:  "isa",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewFilter(tt.pattern).FilterByName(tt.tests)
			if len(result) != tt.expected {
				t.Errorf("expected %d matches, got %d", tt.expected, len(result))
			}
		})
	}
}

func TestFilter_Match_EdgeCases(t *testing.T) {
	t.Run("only wildcards", func(t *testing.T) {
		if !NewFilter("*").Match("x.cton") {
			t.Error("expected * to match through filepath.Match")
		}
	})

	t.Run("pattern with multiple wildcards", func(t *testing.T) {
		filter := NewFilter("*call*indirect*")
		if !filter.Match("call_indirect.cton") {
			t.Error("expected match")
		}
		if filter.Match("call.cton") {
			t.Error("expected no match")
		}
	})
}
