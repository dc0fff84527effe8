package sanitize

import "testing"

func TestStrict(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text", "alice", "alice"},
		{"strips tags", "<b>alice</b>", "alice"},
		{"strips script entirely", "<script>alert(1)</script>", ""},
		{"only markup becomes empty", "<img src=x>", ""},
		{"trims whitespace", "  alice  ", "alice"},
		{"whitespace only becomes empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Strict(tt.input); got != tt.want {
				t.Errorf("Strict(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRich(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text", "hello", "hello"},
		{"keeps bold", "<b>hi</b>", "<b>hi</b>"},
		{"keeps emphasis", "<em>hi</em> <strong>there</strong>", "<em>hi</em> <strong>there</strong>"},
		{"strips script", "<script>alert(1)</script>hi", "hi"},
		{"strips div keeps text", "<div>hi</div>", "hi"},
		{"anchor keeps href only", `<a href="https://example.com" onclick="x()">link</a>`, `<a href="https://example.com">link</a>`},
		{"anchor gains no extra attributes", `<a href="https://example.com">link</a>`, `<a href="https://example.com">link</a>`},
		{"drops unsafe scheme", `<a href="javascript:alert(1)">x</a>`, "x"},
		{"only disallowed markup becomes empty", "<img src=x>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Rich(tt.input); got != tt.want {
				t.Errorf("Rich(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
