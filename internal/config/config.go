package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"yellowball/internal/feed"
	"yellowball/internal/notify/mail"
)

const defaultExternalHTTPTimeout = 30 * time.Second
const defaultExternalHTTPTimeoutSeconds = int(defaultExternalHTTPTimeout / time.Second)

type Config struct {
	ResultsURL                 string `yaml:"results_url"`
	ExternalHTTPTimeoutSeconds int    `yaml:"external_http_timeout_seconds"`

	TicketFile string `yaml:"ticket_file"`

	MailServer   string   `yaml:"mail_server"`
	MailFrom     string   `yaml:"mail_from"`
	MailTo       []string `yaml:"mail_to"`
	MailUsername string   `yaml:"mail_username"`
	MailPassword string   `yaml:"mail_password"`
	MailSubject  string   `yaml:"mail_subject"`
	// MailInsecureSkipVerify accepts any STARTTLS certificate from a remote
	// mail server. Loopback servers are never verified.
	MailInsecureSkipVerify bool `yaml:"mail_insecure_skip_verify"`

	SlackWebhookURL string `yaml:"slack_webhook_url"`
	HistoryDBPath   string `yaml:"history_db_path"`
	CheckSchedule   string `yaml:"check_schedule"`

	Timezone string `yaml:"timezone"`
	LogLevel string `yaml:"log_level"`
	NoColor  bool   `yaml:"no_color"`

	Location *time.Location `yaml:"-"` // computed from Timezone, not from YAML
	Level    log.Level      `yaml:"-"`
}

// DefaultPaths lists where a config file is looked for when none is given.
func DefaultPaths() []string {
	paths := []string{"yellowball.yaml"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "yellowball", "config.yaml"))
	}
	return paths
}

// LoadConfig reads the YAML file at path (or CONFIG_PATH, or the first
// existing default), then .env, then environment overrides, then applies
// defaults and validates. An explicitly named file must exist.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	explicit := true
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		explicit = false
		for _, p := range DefaultPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing %s: %w", path, err)
			}
			log.Debugf("Loaded config from %s", path)
		case explicit:
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := godotenv.Load(); err == nil {
		log.Debugf("Loaded environment from .env")
	}

	envOverride(&cfg.ResultsURL, "RESULTS_URL")
	if err := envOverrideInt(&cfg.ExternalHTTPTimeoutSeconds, "EXTERNAL_HTTP_TIMEOUT_SECONDS"); err != nil {
		return Config{}, err
	}
	envOverride(&cfg.TicketFile, "TICKET_FILE")
	envOverride(&cfg.MailServer, "MAIL_SERVER")
	envOverride(&cfg.MailFrom, "MAIL_FROM")
	envOverride(&cfg.MailUsername, "MAIL_USERNAME")
	envOverride(&cfg.MailPassword, "MAIL_PASSWORD")
	envOverride(&cfg.MailSubject, "MAIL_SUBJECT")
	envOverride(&cfg.SlackWebhookURL, "SLACK_WEBHOOK_URL")
	envOverride(&cfg.HistoryDBPath, "HISTORY_DB_PATH")
	envOverride(&cfg.CheckSchedule, "CHECK_SCHEDULE")
	envOverride(&cfg.Timezone, "TIMEZONE")
	envOverride(&cfg.LogLevel, "LOG_LEVEL")
	if err := envOverrideBool(&cfg.MailInsecureSkipVerify, "MAIL_INSECURE_SKIP_VERIFY"); err != nil {
		return Config{}, err
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		cfg.NoColor = true
	}
	if to := os.Getenv("MAIL_TO"); to != "" {
		cfg.MailTo = SplitList(to)
	}

	if cfg.ResultsURL == "" {
		cfg.ResultsURL = feed.DefaultResultsURL
	}
	if cfg.ExternalHTTPTimeoutSeconds == 0 {
		cfg.ExternalHTTPTimeoutSeconds = defaultExternalHTTPTimeoutSeconds
	}
	if cfg.MailServer == "" {
		cfg.MailServer = mail.DefaultServer
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}

	if cfg.ExternalHTTPTimeoutSeconds < 5 {
		return Config{}, fmt.Errorf("invalid external_http_timeout_seconds '%d': must be >= 5", cfg.ExternalHTTPTimeoutSeconds)
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return Config{}, fmt.Errorf("invalid log_level '%s': %w", cfg.LogLevel, err)
	}
	cfg.Level = level

	if strings.EqualFold(cfg.Timezone, "Local") {
		cfg.Location = time.Local
	} else {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return Config{}, fmt.Errorf("invalid timezone '%s': %w", cfg.Timezone, err)
		}
		cfg.Location = loc
	}

	return cfg, nil
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) error {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", envKey, val, err)
		}
		*field = parsed
	}
	return nil
}

func envOverrideBool(field *bool, envKey string) error {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", envKey, val, err)
		}
		*field = parsed
	}
	return nil
}

// SplitList splits a comma separated list, dropping empty entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c Config) MailConfigured() bool {
	return c.MailFrom != "" && len(c.MailTo) > 0
}

func (c Config) SlackConfigured() bool {
	return c.SlackWebhookURL != ""
}

func (c Config) HistoryEnabled() bool {
	return c.HistoryDBPath != ""
}
