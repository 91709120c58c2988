// Package app chooses between a headless run and the interactive debugger
// and wires the pieces together for either.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/atomicstack/volute/internal/backend"
	"github.com/atomicstack/volute/internal/debugview"
	"github.com/atomicstack/volute/internal/driver"
	"github.com/atomicstack/volute/internal/logging/events"
	"github.com/atomicstack/volute/internal/program"
	"github.com/atomicstack/volute/internal/textbuf"
	"github.com/atomicstack/volute/internal/ui"
	"github.com/atomicstack/volute/internal/vm"
)

const (
	stdinSource   = "-"
	watchInterval = 250 * time.Millisecond
)

// Config describes user-provided application options.
type Config struct {
	Source    string
	Interval  time.Duration
	MaxSteps  int
	Debug     bool
	Headless  bool
	Watch     bool
	Immediate bool
	Clicks    []program.Location
}

// Run reads the program and executes it, interactively when stdout is a
// terminal and headless otherwise.
func Run(cfg Config) error {
	src, err := readSource(cfg.Source, os.Stdin)
	if err != nil {
		return err
	}
	if cfg.Headless || !term.IsTerminal(int(os.Stdout.Fd())) {
		events.App.Mode("headless", cfg.Source)
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return RunHeadless(ctx, cfg, src, os.Stdout, os.Stderr)
	}
	events.App.Mode("interactive", cfg.Source)
	return runInteractive(cfg, src)
}

// RunHeadless runs src until it settles, delivers each configured click
// followed by another settle, then writes the final program text to out and
// a status line to errOut. A fault ends the run early and is returned.
func RunHeadless(ctx context.Context, cfg Config, src string, out, errOut io.Writer) error {
	buf := textbuf.NewFromString(src)
	drv := driver.New(buf, driver.Options{
		ImmediateSync: cfg.Immediate,
		MaxSteps:      cfg.MaxSteps,
	})
	drv.Start()
	err := drv.Run(ctx)
	for _, loc := range cfg.Clicks {
		if err != nil {
			break
		}
		if _, err = drv.Click(loc); err != nil {
			break
		}
		err = drv.Run(ctx)
	}

	text := buf.Text()
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if _, werr := io.WriteString(out, text); werr != nil && err == nil {
		err = fmt.Errorf("write program: %w", werr)
	}
	fmt.Fprintf(errOut, "%s after %d steps\n", drv.Status(), drv.Steps())
	return err
}

func runInteractive(cfg Config, src string) error {
	buf := textbuf.NewFromString(src)
	view := debugview.New()
	drv := driver.New(buf, driver.Options{
		ImmediateSync: cfg.Immediate || cfg.Debug,
		MaxSteps:      cfg.MaxSteps,
		Observer:      view,
	})

	var watcher *backend.Watcher
	if cfg.Watch {
		w, err := backend.NewWatcher(cfg.Source, watchInterval)
		if err != nil {
			return err
		}
		defer w.Stop()
		watcher = w
	}

	drv.Start()
	model := ui.NewModel(ui.Options{
		Title:     title(cfg.Source),
		Buffer:    buf,
		Driver:    drv,
		Debug:     view,
		Watcher:   watcher,
		Interval:  cfg.Interval,
		ShowDebug: cfg.Debug,
	})
	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}
	if cfg.Source == stdinSource {
		opts = append(opts, tea.WithInputTTY())
	}
	_, err := tea.NewProgram(model, opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// ExitCode maps a Run error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var fault *vm.Fault
	if errors.As(err, &fault) {
		return 3
	}
	return 1
}

func readSource(path string, stdin io.Reader) (string, error) {
	if path == "" || path == stdinSource {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read program from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read program: %w", err)
	}
	return string(data), nil
}

func title(source string) string {
	if source == "" || source == stdinSource {
		return "volute: stdin"
	}
	return "volute: " + filepath.Base(source)
}
