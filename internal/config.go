package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security"`
	Session       SessionConfig       `mapstructure:"session"`
	Mail          MailConfig          `mapstructure:"mail"`
	Departments   map[string][]string `mapstructure:"departments"`
	Classifier    ClassifierConfig    `mapstructure:"classifier"`
	RateLimit     RateLimitConfig     `mapstructure:"rate_limit"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Source          string        `mapstructure:"source"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type SecurityConfig struct {
	SessionSecret   string            `mapstructure:"session_secret"`
	PasswordHashing string            `mapstructure:"password_hashing"`
	BCryptCost      int               `mapstructure:"bcrypt_cost"`
	Credentials     map[string]string `mapstructure:"credentials"`
}

const (
	PasswordHashingBcrypt = "bcrypt"
	PasswordHashingPlain  = "plain"
)

type SessionConfig struct {
	Store         string        `mapstructure:"store"`
	TTL           time.Duration `mapstructure:"ttl"`
	CookieSecure  bool          `mapstructure:"cookie_secure"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
}

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

type MailConfig struct {
	Transport       string        `mapstructure:"transport"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Security        string        `mapstructure:"security"`
	Sender          string        `mapstructure:"sender"`
	Password        string        `mapstructure:"password"`
	Timeout         time.Duration `mapstructure:"timeout"`
	SESRegion       string        `mapstructure:"ses_region"`
	SESAccessKey    string        `mapstructure:"ses_access_key"`
	SESSecretKey    string        `mapstructure:"ses_secret_key"`
	SubjectTemplate string        `mapstructure:"subject_template"`
	BodyTemplate    string        `mapstructure:"body_template"`
}

const (
	MailTransportSMTP = "smtp"
	MailTransportSES  = "ses"

	MailSecuritySTARTTLS = "starttls"
	MailSecuritySSL      = "ssl"
)

type ClassifierConfig struct {
	Negative   []string `mapstructure:"negative"`
	Positive   []string `mapstructure:"positive"`
	Suggestion []string `mapstructure:"suggestion"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
	Burst             int  `mapstructure:"burst"`
}

type ObservabilityConfig struct {
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultConfig mirrors the values the service shipped with before it was configurable.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              8080,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:       DriverSQLite,
			Source:       "feedback_data.db",
			MaxOpenConns: 1,
			MaxIdleConns: 1,
			AutoMigrate:  true,
		},
		Security: SecurityConfig{
			PasswordHashing: PasswordHashingBcrypt,
			BCryptCost:      12,
			Credentials:     map[string]string{},
		},
		Session: SessionConfig{
			Store: SessionStoreMemory,
			TTL:   12 * time.Hour,
		},
		Mail: MailConfig{
			Transport: MailTransportSMTP,
			Host:      "smtp.mail.me.com",
			Port:      587,
			Security:  MailSecuritySTARTTLS,
		},
		Departments: map[string][]string{},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 30,
			Burst:             10,
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{Path: "/metrics"},
			Logging: LoggingConfig{Level: "info", Format: "text"},
		},
	}
}

// LoadConfigFromEnv builds the configuration for container deployments.
// SECRET_KEY, SENDER_EMAIL and SENDER_PASSWORD keep the names the service was first deployed with.
func LoadConfigFromEnv() *Config {
	cfg := DefaultConfig()

	cfg.Server.Port = getEnvAsInt("PORT", cfg.Server.Port)
	cfg.Server.AllowedOrigins = getEnv("ALLOWED_ORIGINS", cfg.Server.AllowedOrigins)

	cfg.Database.Driver = getEnv("DB_DRIVER", cfg.Database.Driver)
	cfg.Database.Source = getEnv("DB_SOURCE", cfg.Database.Source)
	cfg.Database.MaxOpenConns = getEnvAsInt("DB_MAX_OPEN_CONNS", cfg.Database.MaxOpenConns)
	cfg.Database.MaxIdleConns = getEnvAsInt("DB_MAX_IDLE_CONNS", cfg.Database.MaxIdleConns)

	cfg.Security.SessionSecret = getEnv("SECRET_KEY", cfg.Security.SessionSecret)
	cfg.Security.PasswordHashing = getEnv("PASSWORD_HASHING", cfg.Security.PasswordHashing)
	cfg.Security.BCryptCost = getEnvAsInt("BCRYPT_COST", cfg.Security.BCryptCost)
	if raw := os.Getenv("DASHBOARD_CREDENTIALS"); raw != "" {
		cfg.Security.Credentials = ParseCredentials(raw)
	}

	cfg.Session.Store = getEnv("SESSION_STORE", cfg.Session.Store)
	cfg.Session.TTL = getEnvAsDuration("SESSION_TTL", cfg.Session.TTL)
	cfg.Session.CookieSecure = getEnv("SESSION_COOKIE_SECURE", "") == "true"
	cfg.Session.RedisAddr = getEnv("REDIS_ADDR", cfg.Session.RedisAddr)
	cfg.Session.RedisPassword = getEnv("REDIS_PASSWORD", cfg.Session.RedisPassword)
	cfg.Session.RedisDB = getEnvAsInt("REDIS_DB", cfg.Session.RedisDB)

	cfg.Mail.Transport = getEnv("MAIL_TRANSPORT", cfg.Mail.Transport)
	cfg.Mail.Host = getEnv("SMTP_HOST", cfg.Mail.Host)
	cfg.Mail.Port = getEnvAsInt("SMTP_PORT", cfg.Mail.Port)
	cfg.Mail.Security = getEnv("SMTP_SECURITY", cfg.Mail.Security)
	cfg.Mail.Sender = getEnv("SENDER_EMAIL", cfg.Mail.Sender)
	cfg.Mail.Password = getEnv("SENDER_PASSWORD", cfg.Mail.Password)
	cfg.Mail.Timeout = getEnvAsDuration("SMTP_TIMEOUT", cfg.Mail.Timeout)
	cfg.Mail.SESRegion = getEnv("SES_REGION", cfg.Mail.SESRegion)
	cfg.Mail.SESAccessKey = getEnv("SES_ACCESS_KEY", cfg.Mail.SESAccessKey)
	cfg.Mail.SESSecretKey = getEnv("SES_SECRET_KEY", cfg.Mail.SESSecretKey)

	if raw := os.Getenv("DEPARTMENT_RECIPIENTS"); raw != "" {
		cfg.Departments = ParseDepartments(raw)
	}

	if raw := os.Getenv("CLASSIFIER_NEGATIVE"); raw != "" {
		cfg.Classifier.Negative = splitList(raw)
	}
	if raw := os.Getenv("CLASSIFIER_POSITIVE"); raw != "" {
		cfg.Classifier.Positive = splitList(raw)
	}
	if raw := os.Getenv("CLASSIFIER_SUGGESTION"); raw != "" {
		cfg.Classifier.Suggestion = splitList(raw)
	}

	cfg.RateLimit.Enabled = getEnv("RATE_LIMIT_ENABLED", "") == "true"
	cfg.RateLimit.RequestsPerMinute = getEnvAsInt("RATE_LIMIT_RPM", cfg.RateLimit.RequestsPerMinute)
	cfg.RateLimit.Burst = getEnvAsInt("RATE_LIMIT_BURST", cfg.RateLimit.Burst)

	cfg.Observability.Metrics.Enabled = getEnv("METRICS_ENABLED", "") == "true"
	cfg.Observability.Logging.Level = getEnv("LOG_LEVEL", cfg.Observability.Logging.Level)
	cfg.Observability.Logging.Format = getEnv("LOG_FORMAT", "json")

	return cfg
}

// ParseDepartments reads "5542=a@x.com,b@x.com;HR=hr@x.com".
func ParseDepartments(raw string) map[string][]string {
	out := make(map[string][]string)
	for _, entry := range strings.Split(raw, ";") {
		code, addrs, ok := strings.Cut(entry, "=")
		code = strings.TrimSpace(code)
		if !ok || code == "" {
			continue
		}
		out[code] = splitList(addrs)
	}
	return out
}

// ParseCredentials reads "admin=<secret>;ops=<secret>".
func ParseCredentials(raw string) map[string]string {
	out := make(map[string]string)
	for _, entry := range strings.Split(raw, ";") {
		user, secret, ok := strings.Cut(entry, "=")
		user = strings.TrimSpace(user)
		if !ok || user == "" {
			continue
		}
		out[user] = strings.TrimSpace(secret)
	}
	return out
}

// Recipients accepts a single address or a list.
type Recipients []string

func (r *Recipients) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*r = splitList(node.Value)
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*r = splitList(strings.Join(list, ","))
		return nil
	default:
		return fmt.Errorf("line %d: recipients must be an address or a list", node.Line)
	}
}

// ApplyCaseSensitiveKeys re-reads departments and credentials from the raw YAML.
// viper lower-cases map keys, which would turn department "HR" into "hr".
func ApplyCaseSensitiveKeys(cfg *Config, data []byte) error {
	var raw struct {
		Departments map[string]Recipients `yaml:"departments"`
		Security    struct {
			Credentials map[string]string `yaml:"credentials"`
		} `yaml:"security"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if raw.Departments != nil {
		cfg.Departments = make(map[string][]string, len(raw.Departments))
		for code, recipients := range raw.Departments {
			cfg.Departments[strings.TrimSpace(code)] = []string(recipients)
		}
	}
	if raw.Security.Credentials != nil {
		cfg.Security.Credentials = raw.Security.Credentials
	}
	return nil
}

// ----------------- HELPERS -----------------

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if err := c.Session.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("session config: %v", err))
	}

	if err := c.Mail.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("mail config: %v", err))
	}

	if err := validateDepartments(c.Departments); err != nil {
		errs = append(errs, fmt.Sprintf("departments: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.AllowedOrigins != "" {
		for _, origin := range strings.Split(c.AllowedOrigins, ",") {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

// Origins returns the trimmed allowed origins list.
func (c *ServerConfig) Origins() []string {
	return splitList(c.AllowedOrigins)
}

func (c *DatabaseConfig) Validate() error {
	switch c.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported driver %q", c.Driver)
	}
	if c.Source == "" {
		return errors.New("source is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *SecurityConfig) Validate() error {
	if len(c.SessionSecret) < 32 {
		return errors.New("session secret must be at least 32 characters")
	}
	switch c.PasswordHashing {
	case PasswordHashingBcrypt, PasswordHashingPlain:
	default:
		return fmt.Errorf("unsupported password_hashing %q", c.PasswordHashing)
	}
	if len(c.Credentials) == 0 {
		return errors.New("at least one dashboard credential is required")
	}
	if c.PasswordHashing == PasswordHashingBcrypt {
		for user, hash := range c.Credentials {
			if !strings.HasPrefix(hash, "$2") {
				return fmt.Errorf("credential for %q is not a bcrypt hash (use the hash-password command)", user)
			}
		}
	}
	return nil
}

func (c *SessionConfig) Validate() error {
	if c.TTL <= 0 {
		return errors.New("ttl must be positive")
	}
	switch c.Store {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if c.RedisAddr == "" {
			return errors.New("redis_addr is required for the redis store")
		}
	default:
		return fmt.Errorf("unsupported store %q", c.Store)
	}
	return nil
}

// Validate only checks shape. Missing sender credentials are allowed: the notifier
// then skips sending and reports a failed notification instead of refusing to start.
func (c *MailConfig) Validate() error {
	switch c.Transport {
	case MailTransportSMTP:
		if c.Host == "" {
			return errors.New("host is required for smtp")
		}
		if c.Port <= 0 || c.Port > 65535 {
			return fmt.Errorf("invalid port %d", c.Port)
		}
		switch c.Security {
		case MailSecuritySTARTTLS, MailSecuritySSL:
		default:
			return fmt.Errorf("unsupported security mode %q", c.Security)
		}
	case MailTransportSES:
		if c.SESRegion == "" {
			return errors.New("ses_region is required for ses")
		}
	default:
		return fmt.Errorf("unsupported transport %q", c.Transport)
	}
	if c.Timeout < 0 {
		return errors.New("timeout cannot be negative")
	}
	return nil
}

func validateDepartments(departments map[string][]string) error {
	codes := make([]string, 0, len(departments))
	for code := range departments {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		if strings.TrimSpace(code) == "" {
			return errors.New("empty department code")
		}
		for _, addr := range departments[code] {
			if !strings.Contains(addr, "@") {
				return fmt.Errorf("department %s: invalid address %q", code, addr)
			}
		}
	}
	return nil
}
