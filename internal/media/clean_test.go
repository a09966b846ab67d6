package media

import "testing"

func TestCleanDescription(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain text", "Just a description.", "Just a description."},
		{"br becomes newline", "line one<br>line two", "line one\nline two"},
		{"self-closing br", "line one<br/>line two", "line one\nline two"},
		{"paragraph end becomes blank line", "<p>one</p><p>two</p>", "one\n\ntwo"},
		{"other tags dropped", "an <i>italic</i> and <b>bold</b> word", "an italic and bold word"},
		{"entities unescaped", "Fate&amp;Destiny &lt;3 &quot;quoted&quot; it&#039;s", `Fate&Destiny <3 "quoted" it's`},
		{"carriage returns removed", "one\r\ntwo", "one\ntwo"},
		{"newlines collapsed", "one<br><br><br><br>two", "one\n\ntwo"},
		{"surrounding whitespace trimmed", "<p>padded</p>", "padded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanDescription(tt.in); got != tt.want {
				t.Errorf("CleanDescription(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
