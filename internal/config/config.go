package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/watch-remote/internal/app"
	"github.com/atomicstack/watch-remote/internal/pump"
	"github.com/atomicstack/watch-remote/internal/server"
	"gopkg.in/yaml.v3"
)

// Config captures runtime configuration for the application.
type Config struct {
	App      app.Config
	Logging  Logging
	Features Features
	Flags    map[string]string
	Args     []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

type Features struct {
	Verbose bool
}

const (
	envConfig     = "WATCH_REMOTE_CONFIG"
	envAddr       = "WATCH_REMOTE_ADDR"
	envPort       = "WATCH_REMOTE_PORT"
	envTick       = "WATCH_REMOTE_TICK"
	envWait       = "WATCH_REMOTE_WAIT_TIMEOUT"
	envHeadless   = "WATCH_REMOTE_HEADLESS"
	envJournal    = "WATCH_REMOTE_JOURNAL"
	envRejectDups = "WATCH_REMOTE_REJECT_DUPLICATE_IDS"
	envVerbose    = "WATCH_REMOTE_VERBOSE"
	envTrace      = "WATCH_REMOTE_TRACE"
	envLogFile    = "WATCH_REMOTE_LOG_FILE"
)

// File mirrors the optional YAML configuration file. Unset keys keep the
// built-in defaults.
type File struct {
	Addr               *string        `yaml:"addr"`
	Port               *int           `yaml:"port"`
	Tick               *time.Duration `yaml:"tick"`
	WaitTimeout        *time.Duration `yaml:"wait_timeout"`
	Headless           *bool          `yaml:"headless"`
	Journal            *string        `yaml:"journal"`
	RejectDuplicateIDs *bool          `yaml:"reject_duplicate_ids"`
	Verbose            *bool          `yaml:"verbose"`
	Trace              *bool          `yaml:"trace"`
	LogFile            *string        `yaml:"log_file"`
}

type defaults struct {
	addr       string
	port       int
	tick       time.Duration
	wait       time.Duration
	headless   bool
	journal    string
	rejectDups bool
	verbose    bool
	trace      bool
	logFile    string
}

func builtinDefaults() defaults {
	return defaults{
		port: server.DefaultPort,
		tick: pump.DefaultInterval,
		wait: server.DefaultWaitTimeout,
	}
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment. Flags take
// precedence over the environment, which takes precedence over the config
// file.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	configPath := envOrDefault(env, envConfig, "")
	if p, ok := scanFlag(args, "config"); ok {
		configPath = p
	}
	base := builtinDefaults()
	if configPath != "" {
		file, err := ReadFile(configPath)
		if err != nil {
			return Config{}, err
		}
		file.apply(&base)
	}

	fs := flag.NewFlagSet("watch-remote", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	fs.String("config", configPath, "path to a YAML config file")
	addr := fs.String("addr", envOrDefault(env, envAddr, base.addr), "interface to listen on (empty listens on all)")
	port := fs.Int("port", envOrInt(env, envPort, base.port), "TCP port for the remote control server")
	tick := fs.Duration("tick", envOrDuration(env, envTick, base.tick), "interval between command queue drains")
	wait := fs.Duration("wait-timeout", envOrDuration(env, envWait, base.wait), "how long a connection waits for a command to execute")
	headless := fs.Bool("headless", envOrBool(env, envHeadless, base.headless), "run without rendering to the terminal")
	journal := fs.String("journal", envOrDefault(env, envJournal, base.journal), "path to a SQLite command journal (empty disables it)")
	rejectDups := fs.Bool("reject-duplicate-ids", envOrBool(env, envRejectDups, base.rejectDups), "fail registration of an id that is already registered")
	trace := fs.Bool("trace", envOrBool(env, envTrace, base.trace), "enable verbose JSON trace logging")
	verbose := fs.Bool("verbose", envOrBool(env, envVerbose, base.verbose), "log informational messages")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, base.logFile), "path to the log file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Config{
		App: app.Config{
			Addr:               *addr,
			Port:               *port,
			TickInterval:       *tick,
			WaitTimeout:        *wait,
			Headless:           *headless,
			JournalPath:        *journal,
			RejectDuplicateIDs: *rejectDups,
			Verbose:            *verbose,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Features: Features{
			Verbose: *verbose,
		},
		Flags: map[string]string{
			"config":             configPath,
			"addr":               *addr,
			"port":               strconv.Itoa(*port),
			"tick":               tick.String(),
			"waitTimeout":        wait.String(),
			"headless":           strconv.FormatBool(*headless),
			"journal":            *journal,
			"rejectDuplicateIDs": strconv.FormatBool(*rejectDups),
			"trace":              strconv.FormatBool(*trace),
			"verbose":            strconv.FormatBool(*verbose),
			"logFile":            *logFile,
		},
		Args: append([]string(nil), fs.Args()...),
	}

	return cfg, nil
}

// ReadFile parses the YAML config file at path.
func ReadFile(path string) (File, error) {
	var file File
	data, err := os.ReadFile(path)
	if err != nil {
		return file, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return file, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return file, nil
}

func (f File) apply(d *defaults) {
	if f.Addr != nil {
		d.addr = *f.Addr
	}
	if f.Port != nil {
		d.port = *f.Port
	}
	if f.Tick != nil {
		d.tick = *f.Tick
	}
	if f.WaitTimeout != nil {
		d.wait = *f.WaitTimeout
	}
	if f.Headless != nil {
		d.headless = *f.Headless
	}
	if f.Journal != nil {
		d.journal = *f.Journal
	}
	if f.RejectDuplicateIDs != nil {
		d.rejectDups = *f.RejectDuplicateIDs
	}
	if f.Verbose != nil {
		d.verbose = *f.Verbose
	}
	if f.Trace != nil {
		d.trace = *f.Trace
	}
	if f.LogFile != nil {
		d.logFile = *f.LogFile
	}
}

// scanFlag finds -name value, --name value or -name=value in args before the
// flag set is built.
func scanFlag(args []string, name string) (string, bool) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return "", false
		}
		trimmed := strings.TrimLeft(arg, "-")
		if trimmed == arg || len(arg)-len(trimmed) > 2 {
			continue
		}
		if trimmed == name && i+1 < len(args) {
			return args[i+1], true
		}
		if v, ok := strings.CutPrefix(trimmed, name+"="); ok {
			return v, true
		}
	}
	return "", false
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
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

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	if cfg.App.Port < 0 || cfg.App.Port > 65535 {
		return fmt.Errorf("port must be between 0 and 65535 (got %d)", cfg.App.Port)
	}
	if cfg.App.TickInterval <= 0 {
		return fmt.Errorf("tick must be > 0 (got %s)", cfg.App.TickInterval)
	}
	if cfg.App.WaitTimeout <= 0 {
		return fmt.Errorf("wait-timeout must be > 0 (got %s)", cfg.App.WaitTimeout)
	}
	return nil
}
