package fragment

import (
	"errors"
	"log/slog"
	"slices"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "literal only",
			input: "plain text",
			want:  []Token{{Literal, "plain text"}},
		},
		{
			name:  "single reference",
			input: "#{id}",
			want:  []Token{{Reference, "id"}},
		},
		{
			name:  "reference between literals",
			input: "dolor #{lorem} sit",
			want: []Token{
				{Literal, "dolor "},
				{Reference, "lorem"},
				{Literal, " sit"},
			},
		},
		{
			name:  "adjacent references",
			input: "#{a}#{b}",
			want:  []Token{{Reference, "a"}, {Reference, "b"}},
		},
		{
			name:  "unterminated reference is literal",
			input: "a #{id1 b",
			want:  []Token{{Literal, "a #{id1 b"}},
		},
		{
			name:  "open brace inside name",
			input: "#{#{a}",
			want:  []Token{{Literal, "#{"}, {Reference, "a"}},
		},
		{
			name:  "empty name is literal",
			input: "x #{} y",
			want:  []Token{{Literal, "x #{} y"}},
		},
		{
			name:  "whitespace in name is literal",
			input: "#{a b} #{c\td}",
			want:  []Token{{Literal, "#{a b} #{c\td}"}},
		},
		{
			name:  "hash without brace",
			input: "#a {b} #",
			want:  []Token{{Literal, "#a {b} #"}},
		},
		{
			name:  "punctuation in name",
			input: "#{q.1-x_y}",
			want:  []Token{{Reference, "q.1-x_y"}},
		},
		{
			name:  "multibyte text",
			input: "héllo #{wörld}!",
			want: []Token{
				{Literal, "héllo "},
				{Reference, "wörld"},
				{Literal, "!"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}

			if !slices.Equal(got, tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}

			if joined := Join(got); joined != tt.input {
				t.Errorf("Join(Parse(%q)) = %q", tt.input, joined)
			}
		})
	}
}

func TestParse_RoundTrip(t *testing.T) {
	inputs := []string{
		"#{",
		"}",
		"#{}",
		"##{a}}",
		"#{a}#{",
		"{#{a}}",
		"#{a\n}",
		"#{a}{b}#{c} #{d",
		"\x00#{\xff}",
	}

	for _, in := range inputs {
		tokens, err := Parse(in)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", in, err)

			continue
		}

		if got := Join(tokens); got != in {
			t.Errorf("Join(Parse(%q)) = %q", in, got)
		}

		for i := 1; i < len(tokens); i++ {
			if tokens[i-1].Kind == Literal && tokens[i].Kind == Literal {
				t.Errorf("Parse(%q) produced adjacent literals at %d", in, i)
			}
		}
	}
}

func TestToken_String(t *testing.T) {
	if got := (Token{Reference, "id"}).String(); got != "#{id}" {
		t.Errorf("reference String() = %q", got)
	}

	if got := (Token{Literal, "x"}).String(); got != "x" {
		t.Errorf("literal String() = %q", got)
	}

	if Literal.String() != "literal" || Reference.String() != "reference" {
		t.Error("unexpected TokenKind names")
	}
}

func TestErrorIs(t *testing.T) {
	err := ErrNameNotFound.With(slog.String("name", "ghost"))

	if !errors.Is(err, ErrNameNotFound) {
		t.Error("annotated error does not match its sentinel")
	}

	if errors.Is(err, ErrCyclicReference) {
		t.Error("annotated error matches an unrelated sentinel")
	}

	wrapped := ErrScriptFailed.Wrap(errors.New("boom"))
	if !errors.Is(wrapped, ErrScriptFailed) {
		t.Error("wrapped error does not match its sentinel")
	}

	if got := wrapped.Error(); got != "script failed: boom" {
		t.Errorf("Error() = %q", got)
	}

	if v, ok := err.Attr("name"); !ok || v.String() != "ghost" {
		t.Errorf("Attr(name) = %v, %v", v, ok)
	}
}
