// =============================================================================
// lineeditor.go - Line Editing with History
// =============================================================================
//
// The play and raw consoles read one line at a time. On a terminal the
// LineEditor uses readline for arrow-key editing and a history file in the
// home directory; otherwise (pipes, tests, Emacs shell buffers) it falls
// back to a plain scanner and prints the prompt itself.
//
// =============================================================================

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"golang.org/x/term"
)

const (
	// historyFileName is stored in the user's home directory.
	historyFileName = ".mazec_history"

	// historySize is the maximum number of remembered lines.
	historySize = 500
)

// GO CONCEPT: Accepting io.Reader Instead of os.Stdin
// ---------------------------------------------------
// NewLineEditor takes the input as an io.Reader rather than reaching for
// os.Stdin itself. Production code passes os.Stdin; tests pass a
// strings.Reader and get the plain fallback for free, because only an
// *os.File can be a terminal. "Accept interfaces, return structs" is the
// usual Go phrasing of this rule.

// LineEditor reads lines with or without terminal editing.
type LineEditor struct {
	interactive bool

	// rl is used when interactive.
	rl *readline.Instance

	// scanner and out are used otherwise.
	scanner *bufio.Scanner
	out     io.Writer
}

// GO CONCEPT: Type Assertions
// ----------------------------
// r.(*os.File) asks whether the interface value r holds an *os.File. The
// two-value form (f, ok) never panics: ok is false for any other reader.
// Only a real file has a descriptor that term.IsTerminal can inspect.

// isTerminal reports whether r is an interactive terminal outside Emacs.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) && os.Getenv("INSIDE_EMACS") == ""
}

// NewLineEditor creates an editor reading from in. Prompts of the
// non-interactive fallback are written to out.
func NewLineEditor(in io.Reader, out io.Writer) *LineEditor {
	plain := &LineEditor{scanner: bufio.NewScanner(in), out: out}
	if !isTerminal(in) {
		return plain
	}

	var historyPath string
	if home := homeDir(); home != "" {
		historyPath = filepath.Join(home, historyFileName)
	}

	rl, err := readline.NewFromConfig(&readline.Config{
		HistoryFile:            historyPath,
		HistoryLimit:           historySize,
		DisableAutoSaveHistory: true,
		Prompt:                 "",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: readline init failed (%v), using basic input\n", err)
		return plain
	}

	return &LineEditor{interactive: true, rl: rl}
}

// GetLine shows prompt and returns the next line. io.EOF means the user
// is done (Ctrl-D, Ctrl-C or end of input).
func (le *LineEditor) GetLine(prompt string) (string, error) {
	if le.interactive {
		return le.getInteractiveLine(prompt)
	}
	return le.getPlainLine(prompt)
}

// GO CONCEPT: Translating Library Errors
// --------------------------------------
// readline reports Ctrl-C as readline.ErrInterrupt. The consoles only know
// io.EOF as "the user is done", so the editor maps one onto the other and
// callers never import readline themselves.
func (le *LineEditor) getInteractiveLine(prompt string) (string, error) {
	le.rl.SetPrompt(prompt)

	line, err := le.rl.Readline()
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) {
			return "", io.EOF
		}
		return "", err
	}

	if trimmed := strings.TrimSpace(line); trimmed != "" {
		le.rl.SaveToHistory(trimmed)
	}
	return line, nil
}

func (le *LineEditor) getPlainLine(prompt string) (string, error) {
	fmt.Fprint(le.out, prompt)

	if !le.scanner.Scan() {
		if err := le.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return le.scanner.Text(), nil
}

// Close releases the terminal.
func (le *LineEditor) Close() {
	if le.rl != nil {
		le.rl.Close()
		le.rl = nil
	}
}

// IsInteractive reports whether terminal editing is active.
func (le *LineEditor) IsInteractive() bool {
	return le.interactive
}
