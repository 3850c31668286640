package script

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dop251/goja"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/ttacon/chalk"

	"github.com/botarena/botarena/sim/agent"
)

// Error is a control program failure: a read or compile error at load
// time, or an uncaught exception at run time.
type Error struct {
	Path    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// FormatError renders err for a terminal with a bold red label.
func FormatError(err error) string {
	return chalk.Bold.TextStyle(chalk.Red.Color("error:")) + " " + err.Error()
}

// Program is a compiled control program. It is immutable and safe to run
// from several goroutines at once.
type Program struct {
	path    string
	name    string
	program *goja.Program
}

// Load reads and compiles the script at path.
func Load(path string) (*Program, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Message: errors.Cause(err).Error()}
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return compile(path, name, string(src))
}

// LoadString compiles src under name, which stands in for the path in errors.
func LoadString(name, src string) (*Program, error) {
	return compile(name, name, src)
}

func compile(path, name, src string) (*Program, error) {
	prog, err := goja.Compile(path, src, false)
	if err != nil {
		return nil, &Error{Path: path, Message: err.Error()}
	}
	return &Program{path: path, name: name, program: prog}, nil
}

// Name is the script's file name without its extension.
func (p *Program) Name() string { return p.name }

// Path is where the script was loaded from.
func (p *Program) Path() string { return p.path }

// Run executes the program against b until it finishes, throws, or ctx is
// cancelled. Cancellation interrupts the runtime and returns ctx.Err().
func (p *Program) Run(ctx context.Context, b agent.Bindings) error {
	vm := goja.New()
	if err := register(vm, b, logrus.WithField("script", p.name)); err != nil {
		return errors.Wrap(err, "registering bindings")
	}

	stop := context.AfterFunc(ctx, func() { vm.Interrupt(ctx.Err()) })
	defer stop()

	_, err := vm.RunProgram(p.program)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	var exc *goja.Exception
	if errors.As(err, &exc) {
		return &Error{Path: p.path, Message: exceptionMessage(exc)}
	}
	return &Error{Path: p.path, Message: err.Error()}
}

// exceptionMessage locates exc at its innermost script frame. goja's own
// message names the top frame, which is a Go binding when one threw.
func exceptionMessage(exc *goja.Exception) string {
	if exc.Value() == nil {
		return exc.Error()
	}
	for _, line := range strings.Split(exc.String(), "\n") {
		frame, ok := strings.CutPrefix(strings.TrimSpace(line), "at ")
		if !ok || strings.HasSuffix(frame, "native") || strings.HasSuffix(frame, "native)") {
			continue
		}
		return exc.Value().String() + " at " + frame
	}
	return exc.Error()
}
