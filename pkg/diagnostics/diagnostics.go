// Package diagnostics collects and formats scan, parse, resolve, and
// runtime errors. The reporter is a sink shared by every pipeline stage;
// its flags decide whether the next stage runs at all.
package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/timfan/golox/pkg/token"
)

// Reporter accumulates errors for one pipeline run. Compile-time errors
// (scan, parse, resolve) set HadError; runtime errors set HadRuntimeError.
type Reporter struct {
	out             io.Writer
	hadError        bool
	hadRuntimeError bool
}

// New returns a Reporter writing to out. A nil out means os.Stderr.
func New(out io.Writer) *Reporter {
	if out == nil {
		out = os.Stderr
	}
	return &Reporter{out: out}
}

// ScanError reports a lexical error at the given line.
func (r *Reporter) ScanError(line int, message string) {
	r.report(line, "", message)
}

// TokenError reports a compile-time error located at tok. EOF tokens
// render as "at end"; everything else quotes the offending lexeme.
func (r *Reporter) TokenError(tok token.Token, message string) {
	if tok.Kind == token.EOF {
		r.report(tok.Line, " at end", message)
	} else {
		r.report(tok.Line, fmt.Sprintf(" at '%s'", tok.Lexeme), message)
	}
}

// RuntimeError reports an evaluation error: the message on one line, the
// source line on the next.
func (r *Reporter) RuntimeError(tok token.Token, message string) {
	fmt.Fprintf(r.out, "%s\n[line %d]\n", message, tok.Line)
	r.hadRuntimeError = true
}

func (r *Reporter) report(line int, where, message string) {
	fmt.Fprintf(r.out, "[line %d] Error%s: %s\n", line, where, message)
	r.hadError = true
}

// HadError reports whether any compile-time error has been flagged.
func (r *Reporter) HadError() bool { return r.hadError }

// HadRuntimeError reports whether any runtime error has been flagged.
func (r *Reporter) HadRuntimeError() bool { return r.hadRuntimeError }

// Reset clears the compile-time flag so a REPL can accept the next line.
// The runtime flag is left alone; file mode reads it for the exit code.
func (r *Reporter) Reset() { r.hadError = false }
