// Package token defines the lexical tokens of the language.
package token

import "fmt"

// Kind identifies the type of a scanned token.
type Kind int

const (
	// Single-character tokens
	LeftBracket Kind = iota
	RightBracket
	LeftParen
	RightParen
	LeftBrace
	RightBrace
	Comma
	Dot
	Minus
	Plus
	Colon
	Semicolon
	Slash
	Star

	// One or two character tokens
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual

	// Literals
	Identifier
	String
	Number

	// Keywords
	And
	Break
	Class
	Continue
	Else
	False
	For
	Fun
	If
	Lambda
	Nil
	Or
	Print
	Return
	Super
	This
	True
	Var
	While

	EOF
)

var kindNames = map[Kind]string{
	LeftBracket: "LeftBracket", RightBracket: "RightBracket",
	LeftParen: "LeftParen", RightParen: "RightParen",
	LeftBrace: "LeftBrace", RightBrace: "RightBrace",
	Comma: "Comma", Dot: "Dot", Minus: "Minus", Plus: "Plus",
	Colon: "Colon", Semicolon: "Semicolon", Slash: "Slash", Star: "Star",
	Bang: "Bang", BangEqual: "BangEqual", Equal: "Equal", EqualEqual: "EqualEqual",
	Greater: "Greater", GreaterEqual: "GreaterEqual", Less: "Less", LessEqual: "LessEqual",
	Identifier: "Identifier", String: "String", Number: "Number",
	And: "And", Break: "Break", Class: "Class", Continue: "Continue",
	Else: "Else", False: "False", For: "For", Fun: "Fun", If: "If",
	Lambda: "Lambda", Nil: "Nil", Or: "Or", Print: "Print", Return: "Return",
	Super: "Super", This: "This", True: "True", Var: "Var", While: "While",
	EOF: "EOF",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is a single lexeme with its classification and source line.
// Literal is non-nil only for String (string) and Number (float64) tokens.
type Token struct {
	Kind    Kind
	Lexeme  string
	Literal any
	Line    int
}

func (t Token) String() string {
	if t.Literal != nil {
		return fmt.Sprintf("%s %q %v", t.Kind, t.Lexeme, t.Literal)
	}
	return fmt.Sprintf("%s %q", t.Kind, t.Lexeme)
}
