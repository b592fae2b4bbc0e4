package sanitize

import "testing"

func TestPlain(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text untouched", "Mario Rossi", "Mario Rossi"},
		{"tags stripped", "<b>Mario</b> Rossi", "Mario Rossi"},
		{"script removed", `<script>alert(1)</script>ciao`, "ciao"},
		{"whitespace trimmed", "  ciao \n", "ciao"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Plain(tt.input); got != tt.want {
				t.Errorf("Plain(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestContentKeepsFormatting(t *testing.T) {
	in := `<p>Benvenuti al <strong>circolo</strong></p><script>alert(1)</script>`
	got := Content(in)
	if got != `<p>Benvenuti al <strong>circolo</strong></p>` {
		t.Errorf("Content(%q) = %q", in, got)
	}
}
