// Package config assembles the bot's configuration once at startup from an
// optional json5 file and the process environment.
package config

import (
	"botwise/internal/components/chrono"
	"botwise/lib/configutil"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"dario.cat/mergo"
)

const DefaultBaseUrl = "https://peerwise.cs.auckland.ac.nz"

const (
	EnvSchedule    = "PEERWISE_SCHEDULE"
	EnvInstitution = "PEERWISE_INSTITUTION"
	EnvCourse      = "PEERWISE_COURSE"
	EnvUser        = "PEERWISE_USER"
	EnvPass        = "PEERWISE_PASS"
	EnvBaseUrl     = "PEERWISE_BASE_URL"
	EnvDatabase    = "DATABASE_PATH"
	EnvTimezone    = "BOTWISE_TIMEZONE"
	EnvDebug       = "BOTWISE_DEBUG"
	EnvConfigFile  = "BOTWISE_CONFIG"
)

type Config struct {
	// cron expression that controls how often the bot wakes up
	Schedule    string `json:"schedule"`
	Institution string `json:"institution"`
	Course      string `json:"course"`
	User        string `json:"user"`
	Pass        string `json:"pass"`
	BaseUrl     string `json:"base_url"`
	// path to the sqlite file holding the question queue, or a libsql url
	DatabasePath string `json:"database_path"`
	// IANA timezone name the schedule is interpreted in, defaults to the system timezone
	Timezone string `json:"timezone"`
	Debug    bool   `json:"debug"`
}

// ConfigError is returned when the configuration is incomplete or malformed.
type ConfigError struct {
	Missing []string
	Err     error
}

func (e *ConfigError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("config: missing required values: %s", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("config: %s", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Load reads configuration from the process environment.
func Load() (Config, error) {
	return LoadFrom(os.LookupEnv)
}

// LoadFrom reads configuration through lookup. If BOTWISE_CONFIG names a json5
// file, it is read first and every variable set in the environment overrides
// the value from the file.
func LoadFrom(lookup LookupFunc) (Config, error) {
	cfg, err := read(lookup)
	if err != nil {
		return Config{}, err
	}
	err = cfg.Validate()
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDatabasePath reads configuration the same way as Load but only requires
// DATABASE_PATH, for commands that just touch the question store.
func LoadDatabasePath() (string, error) {
	return LoadDatabasePathFrom(os.LookupEnv)
}

func LoadDatabasePathFrom(lookup LookupFunc) (string, error) {
	cfg, err := read(lookup)
	if err != nil {
		return "", err
	}
	if cfg.DatabasePath == "" {
		return "", &ConfigError{Missing: []string{EnvDatabase}, Err: errors.New("missing required values")}
	}
	return cfg.DatabasePath, nil
}

func read(lookup LookupFunc) (Config, error) {
	var cfg Config

	if path, ok := lookup(EnvConfigFile); ok && path != "" {
		fromFile, err := configutil.ReadConfig[Config](path)
		if err != nil {
			return Config{}, &ConfigError{Err: fmt.Errorf("read %s: %w", path, err)}
		}
		cfg = fromFile
	}

	fromEnv, err := fromEnvironment(lookup)
	if err != nil {
		return Config{}, err
	}
	err = mergo.Merge(&cfg, fromEnv, mergo.WithOverride)
	if err != nil {
		return Config{}, &ConfigError{Err: err}
	}
	// mergo skips zero values, so an explicit false would not override the file
	debug, ok, err := debugFromEnvironment(lookup)
	if err != nil {
		return Config{}, err
	}
	if ok {
		cfg.Debug = debug
	}

	if cfg.BaseUrl == "" {
		cfg.BaseUrl = DefaultBaseUrl
	}
	cfg.BaseUrl = strings.TrimRight(cfg.BaseUrl, "/")
	return cfg, nil
}

func fromEnvironment(lookup LookupFunc) (Config, error) {
	get := func(key string) string {
		value, _ := lookup(key)
		return strings.TrimSpace(value)
	}

	cfg := Config{
		Schedule:     get(EnvSchedule),
		Institution:  get(EnvInstitution),
		Course:       get(EnvCourse),
		User:         get(EnvUser),
		Pass:         get(EnvPass),
		BaseUrl:      get(EnvBaseUrl),
		DatabasePath: get(EnvDatabase),
		Timezone:     get(EnvTimezone),
	}
	return cfg, nil
}

func debugFromEnvironment(lookup LookupFunc) (bool, bool, error) {
	value, ok := lookup(EnvDebug)
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return false, false, nil
	}
	debug, err := strconv.ParseBool(value)
	if err != nil {
		return false, false, &ConfigError{Err: fmt.Errorf("%s: %w", EnvDebug, err)}
	}
	return debug, true, nil
}

// Validate checks that every required value is present and that the schedule
// and timezone can be parsed.
func (c Config) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{EnvSchedule, c.Schedule},
		{EnvInstitution, c.Institution},
		{EnvCourse, c.Course},
		{EnvUser, c.User},
		{EnvPass, c.Pass},
		{EnvDatabase, c.DatabasePath},
	}
	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.key)
		}
	}
	if len(missing) > 0 {
		return &ConfigError{Missing: missing, Err: errors.New("missing required values")}
	}

	err := chrono.Validate(c.Schedule)
	if err != nil {
		return &ConfigError{Err: fmt.Errorf("%s: %w", EnvSchedule, err)}
	}
	_, err = chrono.LoadLocation(c.Timezone)
	if err != nil {
		return &ConfigError{Err: fmt.Errorf("%s: %w", EnvTimezone, err)}
	}
	return nil
}
