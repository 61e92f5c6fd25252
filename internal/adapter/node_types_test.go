package adapter

import (
	"testing"
)

const nodeTypesFixture = `[
  {
    "type": "function",
    "named": true,
    "fields": {
      "name": {"multiple": false, "required": true, "types": [{"type": "identifier", "named": true}]},
      "body": {"multiple": false, "required": false, "types": [{"type": "block", "named": true}]},
      "parameter": {"multiple": true, "required": false, "types": [{"type": "expression", "named": true}]}
    }
  },
  {
    "type": "expression",
    "named": true,
    "subtypes": [
      {"type": "identifier", "named": true},
      {"type": "literal", "named": true}
    ]
  },
  {"type": "identifier", "named": true},
  {"type": "literal", "named": true},
  {"type": "block", "named": true},
  {"type": "comment", "named": true}
]`

func TestNewNodeTypes_InvalidJSON(t *testing.T) {
	if _, err := NewNodeTypes([]byte("not json")); err == nil {
		t.Fatalf("NewNodeTypes() expected error for invalid JSON")
	}
}

func TestNodeTypes_Subtypes(t *testing.T) {
	types, err := NewNodeTypes([]byte(nodeTypesFixture))
	if err != nil {
		t.Fatalf("NewNodeTypes() error = %v", err)
	}

	closure := types.Subtypes("expression")

	want := map[string]bool{"expression": false, "identifier": false, "literal": false}
	for _, kind := range closure {
		if _, ok := want[kind]; !ok {
			t.Fatalf("Subtypes(expression) contains unexpected kind %q", kind)
		}

		want[kind] = true
	}

	for kind, seen := range want {
		if !seen {
			t.Fatalf("Subtypes(expression) missing %q, got %v", kind, closure)
		}
	}
}

func TestNodeTypes_OptionalKind(t *testing.T) {
	types, err := NewNodeTypes([]byte(nodeTypesFixture))
	if err != nil {
		t.Fatalf("NewNodeTypes() error = %v", err)
	}

	tests := []struct {
		name       string
		kind       string
		parentKind string
		want       bool
	}{
		// A required singleton field pins its child.
		{"required singleton", "identifier", "function", false},
		// A non-multiple field pins its child even when not required.
		{"optional singleton", "block", "function", false},
		// A repeated optional field reached through the expression subtype
		// closure. literal only ever occupies that field, so it is deletable.
		{"repeated via subtype", "literal", "function", true},
		// Unknown kinds default to optional.
		{"unknown kind", "mystery", "function", true},
		{"unknown parent", "block", "mystery", true},
		// comment never appears in any field, so it is always deletable.
		{"comment", "comment", "function", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := types.OptionalKind(tt.kind, tt.parentKind); got != tt.want {
				t.Fatalf("OptionalKind(%q, %q) = %v, want %v", tt.kind, tt.parentKind, got, tt.want)
			}
		})
	}
}
