package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/graceinfra/zosmf/types"
)

// Logger writes user-facing CLI output according to OutputStyle. Diagnostic
// logging goes through zerolog instead.
type Logger struct {
	OutputStyle types.OutputStyle
	Spinner     *spinner.Spinner

	out    io.Writer
	errOut io.Writer
}

func NewLogger(style types.OutputStyle) *Logger {
	return &Logger{
		OutputStyle: style,
		Spinner: spinner.New(
			spinner.CharSets[11], // Default ⣾ style spinner, can modify this at the call site
			100*time.Millisecond,
			spinner.WithHiddenCursor(true),
			spinner.WithWriter(os.Stderr)),
		out:    os.Stdout,
		errOut: os.Stderr,
	}
}

// WithOutput redirects stdout and stderr output, mostly for tests.
func (l *Logger) WithOutput(out, errOut io.Writer) *Logger {
	l.out = out
	l.errOut = errOut
	return l
}

func (l *Logger) human() bool {
	return l.OutputStyle == types.StyleHuman || l.OutputStyle == types.StyleHumanVerbose
}

func (l *Logger) Info(msg string, args ...any) {
	if l.human() {
		fmt.Fprintf(l.out, msg+"\n", args...)
	}
	// Silent for machine modes
}

func (l *Logger) Verbose(msg string, args ...any) {
	if l.OutputStyle == types.StyleHumanVerbose {
		fmt.Fprintf(l.out, msg+"\n", args...)
	}
}

func (l *Logger) Error(msg string, args ...any) {
	if l.human() {
		fmt.Fprintf(l.errOut, "Error: "+msg+"\n", args...)
	}
}

// Json prints data as indented JSON in machine mode.
func (l *Logger) Json(data any) {
	if l.OutputStyle == types.StyleMachineJSON {
		encoded, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			fmt.Fprintf(l.errOut, "failed to encode output: %v\n", err)
			return
		}
		fmt.Fprintln(l.out, string(encoded))
	}
}

// StartSpinner starts the logger spinner. you can pass optionalCharset
// to override the default spinner. It is a variadic parameter but only
// the first argument will be used.
func (l *Logger) StartSpinner(text string, optionalCharset ...[]string) {
	if l.human() {
		l.Spinner.Suffix = " " + text
		if len(optionalCharset) > 0 {
			l.Spinner.UpdateCharSet(optionalCharset[0])
		}
		l.Spinner.Start()
	}
}

func (l *Logger) UpdateSpinner(text string) {
	if l.human() {
		l.Spinner.Lock()
		l.Spinner.Suffix = " " + text
		l.Spinner.Unlock()
	}
}

func (l *Logger) StopSpinner() {
	if l.human() {
		l.Spinner.Stop()
	}
}
