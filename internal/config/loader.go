package config

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/example/class-scheduler/internal/logging"
)

// JournalDisabled turns the command journal off when used as the DSN.
const JournalDisabled = "off"

// Environment variable names.
const (
	EnvConfigFile        = "SCHEDULER_CONFIG_FILE"
	EnvListenAddr        = "SCHEDULER_LISTEN_ADDR"
	EnvOpsAddr           = "SCHEDULER_OPS_ADDR"
	EnvJournalDSN        = "SCHEDULER_JOURNAL_DSN"
	EnvStopHaltsListener = "SCHEDULER_STOP_HALTS_LISTENER"
	EnvLogLevel          = "SCHEDULER_LOG_LEVEL"
	EnvLogFormat         = "SCHEDULER_LOG_FORMAT"
)

// Config captures the settings of the scheduling server.
type Config struct {
	ListenAddr        string
	OpsAddr           string
	JournalDSN        string
	StopHaltsListener bool
	LogLevel          string
	LogFormat         string
}

// JournalEnabled reports whether commands should be journaled.
func (c Config) JournalEnabled() bool {
	return !strings.EqualFold(c.JournalDSN, JournalDisabled)
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		ListenAddr: ":1234",
		JournalDSN: "file:journal?mode=memory&cache=shared",
		LogLevel:   "info",
		LogFormat:  logging.FormatJSON,
	}
}

type fileConfig struct {
	ListenAddr        *string `yaml:"listen_addr"`
	OpsAddr           *string `yaml:"ops_addr"`
	JournalDSN        *string `yaml:"journal_dsn"`
	StopHaltsListener *bool   `yaml:"stop_halts_listener"`
	LogLevel          *string `yaml:"log_level"`
	LogFormat         *string `yaml:"log_format"`
}

// Load builds the configuration from defaults, then the YAML file named by
// SCHEDULER_CONFIG_FILE if any, then environment variables. Invalid values
// are reported together.
func Load() (Config, error) {
	cfg := Default()

	if path := strings.TrimSpace(os.Getenv(EnvConfigFile)); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: open %s: %w", path, err)
		}
		defer f.Close()
		if err := applyFile(&cfg, f); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	}

	invalid := make([]string, 0, 2)

	if v, ok := lookup(EnvListenAddr); ok {
		cfg.ListenAddr = v
	}
	if v, ok := lookup(EnvOpsAddr); ok {
		cfg.OpsAddr = v
	}
	if v, ok := lookup(EnvJournalDSN); ok {
		cfg.JournalDSN = v
	}
	if v, ok := lookup(EnvStopHaltsListener); ok {
		halts, err := strconv.ParseBool(v)
		if err != nil {
			invalid = append(invalid, EnvStopHaltsListener)
		} else {
			cfg.StopHaltsListener = halts
		}
	}
	if v, ok := lookup(EnvLogLevel); ok {
		cfg.LogLevel = v
	}
	if v, ok := lookup(EnvLogFormat); ok {
		cfg.LogFormat = v
	}

	invalid = append(invalid, cfg.invalidFields()...)
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("config: invalid values: %s", strings.Join(invalid, ", "))
	}
	return cfg, nil
}

// Parse reads a YAML document over the defaults without consulting the
// environment.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	if err := applyFile(&cfg, r); err != nil {
		return Config{}, err
	}
	if invalid := cfg.invalidFields(); len(invalid) > 0 {
		return Config{}, fmt.Errorf("config: invalid values: %s", strings.Join(invalid, ", "))
	}
	return cfg, nil
}

func applyFile(cfg *Config, r io.Reader) error {
	var file fileConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	assign(&cfg.ListenAddr, file.ListenAddr)
	assign(&cfg.OpsAddr, file.OpsAddr)
	assign(&cfg.JournalDSN, file.JournalDSN)
	assign(&cfg.LogLevel, file.LogLevel)
	assign(&cfg.LogFormat, file.LogFormat)
	if file.StopHaltsListener != nil {
		cfg.StopHaltsListener = *file.StopHaltsListener
	}
	return nil
}

func (c Config) invalidFields() []string {
	var invalid []string
	if !validAddr(c.ListenAddr) {
		invalid = append(invalid, "listen_addr")
	}
	if c.OpsAddr != "" && !validAddr(c.OpsAddr) {
		invalid = append(invalid, "ops_addr")
	}
	if strings.TrimSpace(c.JournalDSN) == "" {
		invalid = append(invalid, "journal_dsn")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		invalid = append(invalid, "log_level")
	}
	switch strings.ToLower(c.LogFormat) {
	case logging.FormatJSON, logging.FormatText:
	default:
		invalid = append(invalid, "log_format")
	}
	return invalid
}

func validAddr(addr string) bool {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n >= 0 && n <= 65535
}

func lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

func assign(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
