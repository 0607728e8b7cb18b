// Package runtime wires the pipeline together: scan, parse, resolve,
// evaluate, with each stage gated on the reporter's error flag. A
// Runtime keeps one interpreter alive across Run calls so globals
// persist, which is the REPL contract.
package runtime

import (
	"errors"
	"io"
	"os"

	"github.com/timfan/golox/pkg/diagnostics"
	"github.com/timfan/golox/pkg/evaluator"
	"github.com/timfan/golox/pkg/lexer"
	"github.com/timfan/golox/pkg/parser"
	"github.com/timfan/golox/pkg/resolver"
	"github.com/timfan/golox/pkg/stdlib"
)

// Result classifies the outcome of one Run.
type Result int

const (
	ResultOK Result = iota
	ResultCompileError
	ResultRuntimeError
)

// Runtime owns the reporter and the persistent interpreter.
type Runtime struct {
	rep    *diagnostics.Reporter
	interp *evaluator.Interpreter
}

type config struct {
	stdout io.Writer
	stderr io.Writer
}

// Option configures a Runtime.
type Option func(*config)

// WithStdout redirects program output (print).
func WithStdout(w io.Writer) Option {
	return func(c *config) { c.stdout = w }
}

// WithStderr redirects diagnostics.
func WithStderr(w io.Writer) Option {
	return func(c *config) { c.stderr = w }
}

// New builds a Runtime with natives installed in its global frame.
func New(opts ...Option) *Runtime {
	cfg := &config{stdout: os.Stdout, stderr: os.Stderr}
	for _, opt := range opts {
		opt(cfg)
	}
	interp := evaluator.New(evaluator.WithStdout(cfg.stdout))
	stdlib.Register(interp.Globals())
	return &Runtime{
		rep:    diagnostics.New(cfg.stderr),
		interp: interp,
	}
}

// Run executes one source unit. Any scan or parse error stops the
// pipeline before resolution; any resolution error stops it before
// evaluation. Runtime errors are reported and classify the result, but
// definitions made before the failure survive in the globals.
func (r *Runtime) Run(source string) Result {
	tokens := lexer.Tokenize(source, r.rep)
	statements := parser.Parse(tokens, r.rep)
	if r.rep.HadError() {
		return ResultCompileError
	}
	r.interp.AddResolution(resolver.Resolve(statements, r.rep))
	if r.rep.HadError() {
		return ResultCompileError
	}
	if err := r.interp.Interpret(statements); err != nil {
		var rte *evaluator.RuntimeError
		if errors.As(err, &rte) {
			r.rep.RuntimeError(rte.Token, rte.Message)
		}
		return ResultRuntimeError
	}
	return ResultOK
}

// ResetErrors clears the compile-time flag so a REPL can keep going
// after a bad line.
func (r *Runtime) ResetErrors() { r.rep.Reset() }
