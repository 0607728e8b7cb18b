package lexer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/timfan/golox/pkg/diagnostics"
	"github.com/timfan/golox/pkg/token"
)

// helper to tokenize and fail on any lexical error
func mustTokenize(t *testing.T, source string) []token.Token {
	t.Helper()
	var buf bytes.Buffer
	rep := diagnostics.New(&buf)
	tokens := Tokenize(source, rep)
	if rep.HadError() {
		t.Fatalf("unexpected lex error: %s", buf.String())
	}
	return tokens
}

// helper that strips the trailing EOF for easier assertions
func mustTokenizeNoEOF(t *testing.T, source string) []token.Token {
	t.Helper()
	tokens := mustTokenize(t, source)
	if len(tokens) == 0 {
		t.Fatal("expected at least one token (EOF)")
	}
	if tokens[len(tokens)-1].Kind != token.EOF {
		t.Fatal("last token is not EOF")
	}
	return tokens[:len(tokens)-1]
}

// helper that tokenizes expecting errors and returns the diagnostics text
func tokenizeWithErrors(t *testing.T, source string) ([]token.Token, string) {
	t.Helper()
	var buf bytes.Buffer
	rep := diagnostics.New(&buf)
	tokens := Tokenize(source, rep)
	if !rep.HadError() {
		t.Fatalf("expected lex error for %q, got none", source)
	}
	return tokens, buf.String()
}

// ---------------------------------------------------------------------------
// Test: empty input produces only EOF
// ---------------------------------------------------------------------------
func TestEmptyInput(t *testing.T) {
	tokens := mustTokenize(t, "")
	if len(tokens) != 1 {
		t.Fatalf("expected 1 token (EOF), got %d", len(tokens))
	}
	if tokens[0].Kind != token.EOF {
		t.Errorf("expected EOF, got %v", tokens[0].Kind)
	}
	if tokens[0].Line != 1 {
		t.Errorf("expected EOF on line 1, got %d", tokens[0].Line)
	}
}

// ---------------------------------------------------------------------------
// Test: all keywords
// ---------------------------------------------------------------------------
func TestKeywords(t *testing.T) {
	tests := []struct {
		keyword  string
		expected token.Kind
	}{
		{"and", token.And},
		{"break", token.Break},
		{"class", token.Class},
		{"continue", token.Continue},
		{"else", token.Else},
		{"false", token.False},
		{"for", token.For},
		{"fun", token.Fun},
		{"if", token.If},
		{"lambda", token.Lambda},
		{"nil", token.Nil},
		{"or", token.Or},
		{"print", token.Print},
		{"return", token.Return},
		{"super", token.Super},
		{"this", token.This},
		{"true", token.True},
		{"var", token.Var},
		{"while", token.While},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			tokens := mustTokenizeNoEOF(t, tt.keyword)
			if len(tokens) != 1 {
				t.Fatalf("expected 1 token, got %d", len(tokens))
			}
			if tokens[0].Kind != tt.expected {
				t.Errorf("expected kind %v, got %v", tt.expected, tokens[0].Kind)
			}
			if tokens[0].Lexeme != tt.keyword {
				t.Errorf("expected lexeme %q, got %q", tt.keyword, tokens[0].Lexeme)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Test: keyword vs identifier disambiguation
// ---------------------------------------------------------------------------
func TestKeywordVsIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected token.Kind
	}{
		{"var keyword", "var", token.Var},
		{"variable is ident", "variable", token.Identifier},
		{"if keyword", "if", token.If},
		{"iffy is ident", "iffy", token.Identifier},
		{"for keyword", "for", token.For},
		{"format is ident", "format", token.Identifier},
		{"fun keyword", "fun", token.Fun},
		{"funny is ident", "funny", token.Identifier},
		{"or keyword", "or", token.Or},
		{"order is ident", "order", token.Identifier},
		{"nil keyword", "nil", token.Nil},
		{"nihil is ident", "nihil", token.Identifier},
		{"break keyword", "break", token.Break},
		{"breaker is ident", "breaker", token.Identifier},
		{"continue keyword", "continue", token.Continue},
		{"continued is ident", "continued", token.Identifier},
		{"lambda keyword", "lambda", token.Lambda},
		{"lambdas is ident", "lambdas", token.Identifier},
		{"print keyword", "print", token.Print},
		{"printer is ident", "printer", token.Identifier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := mustTokenizeNoEOF(t, tt.input)
			if len(tokens) != 1 {
				t.Fatalf("expected 1 token, got %d", len(tokens))
			}
			if tokens[0].Kind != tt.expected {
				t.Errorf("expected %v for %q, got %v", tt.expected, tt.input, tokens[0].Kind)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Test: operators and delimiters
// ---------------------------------------------------------------------------
func TestOperators(t *testing.T) {
	tests := []struct {
		input    string
		expected token.Kind
	}{
		{"[", token.LeftBracket},
		{"]", token.RightBracket},
		{"(", token.LeftParen},
		{")", token.RightParen},
		{"{", token.LeftBrace},
		{"}", token.RightBrace},
		{",", token.Comma},
		{".", token.Dot},
		{"-", token.Minus},
		{"+", token.Plus},
		{":", token.Colon},
		{";", token.Semicolon},
		{"/", token.Slash},
		{"*", token.Star},
		{"!", token.Bang},
		{"!=", token.BangEqual},
		{"=", token.Equal},
		{"==", token.EqualEqual},
		{">", token.Greater},
		{">=", token.GreaterEqual},
		{"<", token.Less},
		{"<=", token.LessEqual},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := mustTokenizeNoEOF(t, tt.input)
			if len(tokens) != 1 {
				t.Fatalf("expected 1 token, got %d", len(tokens))
			}
			if tokens[0].Kind != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, tokens[0].Kind)
			}
		})
	}
}

// maximal-munch: == must not scan as two = tokens
func TestTwoCharOperatorGreedy(t *testing.T) {
	tokens := mustTokenizeNoEOF(t, "= == ! != < <= > >=")
	kinds := []token.Kind{
		token.Equal, token.EqualEqual,
		token.Bang, token.BangEqual,
		token.Less, token.LessEqual,
		token.Greater, token.GreaterEqual,
	}
	if len(tokens) != len(kinds) {
		t.Fatalf("expected %d tokens, got %d", len(kinds), len(tokens))
	}
	for i, want := range kinds {
		if tokens[i].Kind != want {
			t.Errorf("token %d: expected %v, got %v", i, want, tokens[i].Kind)
		}
	}
}

// ---------------------------------------------------------------------------
// Test: number literals
// ---------------------------------------------------------------------------
func TestNumbers(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"0", 0},
		{"42", 42},
		{"3.14", 3.14},
		{"0.5", 0.5},
		{"123456789", 123456789},
		{"1.0", 1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := mustTokenizeNoEOF(t, tt.input)
			if len(tokens) != 1 {
				t.Fatalf("expected 1 token, got %d", len(tokens))
			}
			if tokens[0].Kind != token.Number {
				t.Fatalf("expected Number, got %v", tokens[0].Kind)
			}
			if got := tokens[0].Literal.(float64); got != tt.expected {
				t.Errorf("expected literal %v, got %v", tt.expected, got)
			}
		})
	}
}

// a trailing dot belongs to the stream, not the number
func TestNumberTrailingDot(t *testing.T) {
	tokens := mustTokenizeNoEOF(t, "12.")
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(tokens))
	}
	if tokens[0].Kind != token.Number || tokens[0].Literal.(float64) != 12 {
		t.Errorf("expected number 12, got %v", tokens[0])
	}
	if tokens[1].Kind != token.Dot {
		t.Errorf("expected Dot, got %v", tokens[1].Kind)
	}
}

// a leading dot is a Dot token followed by a number
func TestNumberLeadingDot(t *testing.T) {
	tokens := mustTokenizeNoEOF(t, ".5")
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(tokens))
	}
	if tokens[0].Kind != token.Dot {
		t.Errorf("expected Dot, got %v", tokens[0].Kind)
	}
	if tokens[1].Kind != token.Number {
		t.Errorf("expected Number, got %v", tokens[1].Kind)
	}
}

// ---------------------------------------------------------------------------
// Test: string literals
// ---------------------------------------------------------------------------
func TestStrings(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", `"hello"`, "hello"},
		{"empty", `""`, ""},
		{"spaces", `"a b c"`, "a b c"},
		{"symbols", `"1 + 2 = 3;"`, "1 + 2 = 3;"},
		{"backslash is literal", `"a\nb"`, `a\nb`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := mustTokenizeNoEOF(t, tt.input)
			if len(tokens) != 1 {
				t.Fatalf("expected 1 token, got %d", len(tokens))
			}
			if tokens[0].Kind != token.String {
				t.Fatalf("expected String, got %v", tokens[0].Kind)
			}
			if got := tokens[0].Literal.(string); got != tt.expected {
				t.Errorf("expected literal %q, got %q", tt.expected, got)
			}
		})
	}
}

// a string may span lines; the interior newlines advance the line counter
func TestMultiLineString(t *testing.T) {
	tokens := mustTokenize(t, "\"one\ntwo\"\nx")
	if tokens[0].Kind != token.String {
		t.Fatalf("expected String, got %v", tokens[0].Kind)
	}
	if got := tokens[0].Literal.(string); got != "one\ntwo" {
		t.Errorf("expected literal %q, got %q", "one\ntwo", got)
	}
	// x sits on line 3: one line break inside the string, one after it
	if tokens[1].Kind != token.Identifier || tokens[1].Line != 3 {
		t.Errorf("expected identifier on line 3, got %v on line %d", tokens[1].Kind, tokens[1].Line)
	}
}

func TestUnterminatedString(t *testing.T) {
	_, diag := tokenizeWithErrors(t, `"never closed`)
	want := "[line 1] Error: Unterminated string.\n"
	if diag != want {
		t.Errorf("expected %q, got %q", want, diag)
	}
}

// ---------------------------------------------------------------------------
// Test: comments and whitespace
// ---------------------------------------------------------------------------
func TestComments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		count int
	}{
		{"full line", "// nothing here", 0},
		{"trailing", "var x; // declare x", 3},
		{"comment then code", "// first\nprint 1;", 3},
		{"slash is not comment", "4 / 2", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := mustTokenizeNoEOF(t, tt.input)
			if len(tokens) != tt.count {
				t.Errorf("expected %d tokens, got %d: %v", tt.count, len(tokens), tokens)
			}
		})
	}
}

func TestLineTracking(t *testing.T) {
	tokens := mustTokenizeNoEOF(t, "a\nb\n\nc")
	lines := []int{1, 2, 4}
	if len(tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(tokens))
	}
	for i, want := range lines {
		if tokens[i].Line != want {
			t.Errorf("token %d: expected line %d, got %d", i, want, tokens[i].Line)
		}
	}
}

// ---------------------------------------------------------------------------
// Test: unexpected characters
// ---------------------------------------------------------------------------
func TestUnexpectedCharacter(t *testing.T) {
	tokens, diag := tokenizeWithErrors(t, "var x = @;")
	if !strings.Contains(diag, "[line 1] Error: Unexpected character") {
		t.Errorf("unexpected diagnostic: %q", diag)
	}
	// scanning continues past the bad character
	last := tokens[len(tokens)-2]
	if last.Kind != token.Semicolon {
		t.Errorf("expected scan to continue to the semicolon, last was %v", last.Kind)
	}
}

func TestMultipleErrorsReported(t *testing.T) {
	_, diag := tokenizeWithErrors(t, "@\n#")
	if !strings.Contains(diag, "[line 1]") || !strings.Contains(diag, "[line 2]") {
		t.Errorf("expected errors on both lines, got %q", diag)
	}
}

// ---------------------------------------------------------------------------
// Test: a representative program
// ---------------------------------------------------------------------------
func TestProgramTokens(t *testing.T) {
	source := `fun add(a, b) { return a + b; }
var d = { "k": [1, 2] };
print add(d["k"][0], 2);`
	tokens := mustTokenizeNoEOF(t, source)

	kinds := []token.Kind{
		token.Fun, token.Identifier, token.LeftParen, token.Identifier, token.Comma,
		token.Identifier, token.RightParen, token.LeftBrace, token.Return,
		token.Identifier, token.Plus, token.Identifier, token.Semicolon, token.RightBrace,
		token.Var, token.Identifier, token.Equal, token.LeftBrace, token.String,
		token.Colon, token.LeftBracket, token.Number, token.Comma, token.Number,
		token.RightBracket, token.RightBrace, token.Semicolon,
		token.Print, token.Identifier, token.LeftParen, token.Identifier,
		token.LeftBracket, token.String, token.RightBracket,
		token.LeftBracket, token.Number, token.RightBracket, token.Comma,
		token.Number, token.RightParen, token.Semicolon,
	}
	if len(tokens) != len(kinds) {
		t.Fatalf("expected %d tokens, got %d", len(kinds), len(tokens))
	}
	for i, want := range kinds {
		if tokens[i].Kind != want {
			t.Errorf("token %d (%q): expected %v, got %v", i, tokens[i].Lexeme, want, tokens[i].Kind)
		}
	}
}
