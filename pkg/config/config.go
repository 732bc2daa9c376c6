package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cbodonnell/tankbot/pkg/log"
)

const envPrefix = "TANKBOT_"

// Transport kinds accepted by -transport.
const (
	TransportStdio     = "stdio"
	TransportTCP       = "tcp"
	TransportWebSocket = "ws"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	LogLevel log.LogLevel
	// Transport is one of stdio, tcp or ws.
	Transport string
	// Addr is the server address for tcp (host:port) and ws (URL).
	Addr string
	// RecordPath, when set, writes a compressed transcript of the match.
	RecordPath string
	// ReplayPath, when set, plays a transcript instead of connecting.
	ReplayPath string
	// DebugAddr, when set, serves the debug API on this address.
	DebugAddr string
	// DatabaseURL, when set, stores match summaries.
	DatabaseURL string
	Migrations  string
}

// Load parses args (without the program name). Every flag falls back to an
// environment variable named TANKBOT_ plus the upper-cased flag name with
// dashes replaced by underscores. Flags win over the environment.
func Load(args []string, output io.Writer) (*Config, error) {
	fs := flag.NewFlagSet("tankbot", flag.ContinueOnError)
	fs.SetOutput(output)

	logLevel := fs.String("log-level", "info", "Log level")
	transport := fs.String("transport", TransportStdio, "Transport to the game server: stdio, tcp or ws")
	addr := fs.String("addr", "", "Game server address for the tcp and ws transports")
	record := fs.String("record", "", "Write a transcript of the match to this file")
	replay := fs.String("replay", "", "Replay a transcript instead of connecting to a server")
	debugAddr := fs.String("debug-addr", "", "Serve the debug API on this address")
	databaseURL := fs.String("database-url", "", "Match history database, sqlite://<path> or postgresql://...")
	migrations := fs.String("migrations", "./migrations", "Directory holding the database migrations")

	if err := applyEnv(fs, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected arguments %v", ErrInvalidConfig, fs.Args())
	}

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cfg := &Config{
		LogLevel:    parsedLogLevel,
		Transport:   *transport,
		Addr:        *addr,
		RecordPath:  *record,
		ReplayPath:  *replay,
		DebugAddr:   *debugAddr,
		DatabaseURL: *databaseURL,
		Migrations:  *migrations,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Transport {
	case TransportStdio:
	case TransportTCP, TransportWebSocket:
		if c.Addr == "" && c.ReplayPath == "" {
			return fmt.Errorf("%w: -addr is required for the %s transport", ErrInvalidConfig, c.Transport)
		}
	default:
		return fmt.Errorf("%w: unknown transport %q", ErrInvalidConfig, c.Transport)
	}
	if c.ReplayPath != "" && c.RecordPath != "" {
		return fmt.Errorf("%w: -record and -replay cannot be combined", ErrInvalidConfig)
	}
	return nil
}

// applyEnv sets the default of every flag that has a matching variable.
func applyEnv(fs *flag.FlagSet, lookup func(string) (string, bool)) error {
	var err error
	fs.VisitAll(func(f *flag.Flag) {
		if err != nil {
			return
		}
		name := envPrefix + strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
		if value, ok := lookup(name); ok {
			if setErr := f.Value.Set(value); setErr != nil {
				err = fmt.Errorf("%w: %s: %v", ErrInvalidConfig, name, setErr)
			}
		}
	})
	return err
}
