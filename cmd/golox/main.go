// Command golox is the interpreter entry point: with a script argument
// it runs the file, without one it starts an interactive session.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/peterh/liner"

	"github.com/timfan/golox/pkg/runtime"
)

const historyFile = ".golox_history"

func main() {
	switch len(os.Args) {
	case 1:
		os.Exit(runPrompt())
	case 2:
		os.Exit(runFile(os.Args[1]))
	default:
		fmt.Fprintln(os.Stderr, "Usage: golox [script]")
		os.Exit(64)
	}
}

func runFile(path string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "golox: cannot read %s: %v\n", path, err)
		return 74
	}
	rt := runtime.New()
	switch rt.Run(string(source)) {
	case runtime.ResultCompileError:
		return 65
	case runtime.ResultRuntimeError:
		return 70
	}
	return 0
}

func runPrompt() int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := historyPath()
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	rt := runtime.New()
	for {
		line, err := ln.Prompt("> ")
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return 0
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 74
		}
		if line == "" {
			continue
		}
		ln.AppendHistory(line)
		rt.Run(line)
		rt.ResetErrors()
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFile)
}
