package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/atomicstack/volute/internal/app"
	"github.com/atomicstack/volute/internal/program"
	"github.com/atomicstack/volute/internal/vm"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	File    string
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envLogFile   = "VOLUTE_LOG_FILE"
	envTrace     = "VOLUTE_TRACE"
	envInterval  = "VOLUTE_INTERVAL"
	envMaxSteps  = "VOLUTE_MAX_STEPS"
	envDebug     = "VOLUTE_DEBUG"
	envHeadless  = "VOLUTE_HEADLESS"
	envWatch     = "VOLUTE_WATCH"
	envImmediate = "VOLUTE_IMMEDIATE"
	envConfig    = "VOLUTE_CONFIG"

	defaultInterval = 100 * time.Millisecond
)

// fileConfig mirrors the flags in a TOML file. Unset keys stay nil.
type fileConfig struct {
	LogFile   *string  `toml:"log_file"`
	Trace     *bool    `toml:"trace"`
	Interval  *string  `toml:"interval"`
	MaxSteps  *int     `toml:"max_steps"`
	Debug     *bool    `toml:"debug"`
	Headless  *bool    `toml:"headless"`
	Watch     *bool    `toml:"watch"`
	Immediate *bool    `toml:"immediate"`
	Clicks    []string `toml:"clicks"`
}

// clickList collects repeated --click row:col values.
type clickList []program.Location

func (c *clickList) String() string {
	parts := make([]string, len(*c))
	for i, loc := range *c {
		parts[i] = loc.String()
	}
	return strings.Join(parts, ",")
}

func (c *clickList) Set(value string) error {
	loc, err := vm.ParseLocation(value)
	if err != nil {
		return err
	}
	*c = append(*c, loc)
	return nil
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment. Precedence is
// flag, then environment, then config file, then default.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("volute", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	interval := fs.Duration("interval", envOrDuration(env, envInterval, defaultInterval), "delay between fast-forward steps")
	maxSteps := fs.Int("max-steps", envOrInt(env, envMaxSteps, 0), "stop a run after this many steps (0 is unlimited)")
	debug := fs.Bool("debug", envOrBool(env, envDebug, true), "show the thread debug panel")
	headless := fs.Bool("headless", envOrBool(env, envHeadless, false), "run without a terminal UI and print the result")
	watch := fs.Bool("watch", envOrBool(env, envWatch, false), "reload and restart when the program file changes")
	immediate := fs.Bool("immediate", envOrBool(env, envImmediate, false), "write every edit to the display as it happens")
	configFile := fs.String("config", envOrDefault(env, envConfig, ""), "path to a TOML config file")
	var clicks clickList
	fs.Var(&clicks, "click", "row:col click to deliver after the run settles (repeatable, headless only)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	source := "-"
	if fs.NArg() > 0 {
		source = fs.Arg(0)
	}
	if fs.NArg() > 1 {
		return Config{}, fmt.Errorf("expected one program path, got %d", fs.NArg())
	}

	if *configFile != "" {
		fc, err := readFile(*configFile)
		if err != nil {
			return Config{}, err
		}
		set := make(map[string]bool)
		fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
		unset := func(name, envKey string) bool {
			if set[name] {
				return false
			}
			_, fromEnv := env[envKey]
			return !fromEnv
		}
		if fc.LogFile != nil && unset("log-file", envLogFile) {
			*logFile = *fc.LogFile
		}
		if fc.Trace != nil && unset("trace", envTrace) {
			*trace = *fc.Trace
		}
		if fc.Interval != nil && unset("interval", envInterval) {
			d, err := time.ParseDuration(*fc.Interval)
			if err != nil {
				return Config{}, fmt.Errorf("config %s: interval: %w", *configFile, err)
			}
			*interval = d
		}
		if fc.MaxSteps != nil && unset("max-steps", envMaxSteps) {
			*maxSteps = *fc.MaxSteps
		}
		if fc.Debug != nil && unset("debug", envDebug) {
			*debug = *fc.Debug
		}
		if fc.Headless != nil && unset("headless", envHeadless) {
			*headless = *fc.Headless
		}
		if fc.Watch != nil && unset("watch", envWatch) {
			*watch = *fc.Watch
		}
		if fc.Immediate != nil && unset("immediate", envImmediate) {
			*immediate = *fc.Immediate
		}
		if len(fc.Clicks) > 0 && !set["click"] {
			for _, c := range fc.Clicks {
				if err := clicks.Set(c); err != nil {
					return Config{}, fmt.Errorf("config %s: click: %w", *configFile, err)
				}
			}
		}
	}

	cfg := Config{
		App: app.Config{
			Source:    source,
			Interval:  *interval,
			MaxSteps:  *maxSteps,
			Debug:     *debug,
			Headless:  *headless,
			Watch:     *watch,
			Immediate: *immediate,
			Clicks:    []program.Location(clicks),
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		File: *configFile,
		Flags: map[string]string{
			"source":    source,
			"interval":  interval.String(),
			"maxSteps":  strconv.Itoa(*maxSteps),
			"debug":     strconv.FormatBool(*debug),
			"headless":  strconv.FormatBool(*headless),
			"watch":     strconv.FormatBool(*watch),
			"immediate": strconv.FormatBool(*immediate),
			"clicks":    clicks.String(),
			"config":    *configFile,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

func readFile(path string) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parse config %s: %w", path, err)
	}
	return fc, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}
		values[key] = value
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate rejects option combinations the app cannot honour.
func Validate(cfg Config) error {
	var errs []error
	if cfg.App.Interval <= 0 {
		errs = append(errs, fmt.Errorf("interval must be > 0 (got %s)", cfg.App.Interval))
	}
	if cfg.App.MaxSteps < 0 {
		errs = append(errs, fmt.Errorf("max-steps must be >= 0 (got %d)", cfg.App.MaxSteps))
	}
	if cfg.App.Watch && cfg.App.Source == "-" {
		errs = append(errs, errors.New("watch needs a program file, not stdin"))
	}
	return errors.Join(errs...)
}
