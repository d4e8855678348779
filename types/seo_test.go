package types

import (
	"encoding/json"
	"testing"
)

func TestSeoConfigUnmarshalSchemaAlias(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"schemaJson", `{"schemaJson":"{\"a\":1}"}`, `{"a":1}`},
		{"schema alias", `{"schema":"{\"b\":2}","title":"Home"}`, `{"b":2}`},
		{"schemaJson wins", `{"schema":"{}","schemaJson":"[]"}`, `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c SeoConfig
			if err := json.Unmarshal([]byte(tt.in), &c); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if c.SchemaJSON == nil || *c.SchemaJSON != tt.want {
				t.Fatalf("expected schemaJson %q, got %v", tt.want, c.SchemaJSON)
			}
		})
	}

	// Output keeps the canonical key only.
	out, err := json.Marshal(SeoConfig{SchemaJSON: strPtr("{}")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"version":0,"schemaJson":"{}"}` {
		t.Fatalf("unexpected json %s", out)
	}
}

func TestSeoConfigNormalize(t *testing.T) {
	c := SeoConfig{Title: strPtr(" "), Robots: strPtr("index,follow"), OGImage: strPtr("")}
	c.Normalize()
	if c.Title != nil || c.OGImage != nil {
		t.Fatalf("expected blanks to be nil, got %+v", c)
	}
	if c.Robots == nil || *c.Robots != "index,follow" {
		t.Fatalf("expected robots to survive, got %v", c.Robots)
	}
}

func strPtr(s string) *string { return &s }
