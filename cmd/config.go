package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	defaultHTTPPort        = 8080
	defaultGeocoderTimeout = 5 * time.Second
	defaultNotifyTimeout   = 10 * time.Second
	defaultSMTPPort        = 587
	defaultParcelTopic     = "parcel-events"
)

type Config struct {
	HTTPPort int

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	JWTSecret string

	// GeocoderURL empty means every address resolves to Nairobi centre.
	GeocoderURL     string
	GeocoderAPIKey  string
	GeocoderTimeout time.Duration

	NotifyTimeout time.Duration

	// SMTPHost empty disables email notifications.
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	// KafkaHost is a comma separated broker list; empty disables parcel events.
	KafkaHost              string
	KafkaParcelEventsTopic string

	ReleaseIdleCouriersSchedule string
}

// LoadConfig reads configuration in order: the env file (if present), the
// environment, then flags. args excludes the program name.
func LoadConfig(args []string, logger *slog.Logger) (Config, error) {
	fs := pflag.NewFlagSet("sendit", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	envFile := fs.String("env-file", ".env", "path to a dotenv file")
	port := fs.IntP("port", "p", defaultHTTPPort, "port to listen on")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := godotenv.Load(*envFile); err != nil {
		logger.Warn("env file not loaded", "path", *envFile, "error", err)
	}

	var parseErrs []error
	cfg := Config{
		HTTPPort:                    intEnv("HTTP_PORT", defaultHTTPPort, &parseErrs),
		DBHost:                      os.Getenv("DB_HOST"),
		DBPort:                      stringEnv("DB_PORT", "5432"),
		DBUser:                      os.Getenv("DB_USER"),
		DBPassword:                  os.Getenv("DB_PASSWORD"),
		DBName:                      os.Getenv("DB_NAME"),
		DBSslMode:                   stringEnv("DB_SSLMODE", "disable"),
		JWTSecret:                   os.Getenv("JWT_SECRET"),
		GeocoderURL:                 os.Getenv("GEOCODER_URL"),
		GeocoderAPIKey:              os.Getenv("GEOCODER_API_KEY"),
		GeocoderTimeout:             durationEnv("GEOCODER_TIMEOUT", defaultGeocoderTimeout, &parseErrs),
		NotifyTimeout:               durationEnv("NOTIFY_TIMEOUT", defaultNotifyTimeout, &parseErrs),
		SMTPHost:                    os.Getenv("SMTP_HOST"),
		SMTPPort:                    intEnv("SMTP_PORT", defaultSMTPPort, &parseErrs),
		SMTPUser:                    os.Getenv("SMTP_USER"),
		SMTPPassword:                os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:                    os.Getenv("SMTP_FROM"),
		KafkaHost:                   os.Getenv("KAFKA_HOST"),
		KafkaParcelEventsTopic:      stringEnv("KAFKA_PARCEL_EVENTS_TOPIC", defaultParcelTopic),
		ReleaseIdleCouriersSchedule: os.Getenv("RELEASE_IDLE_COURIERS_SCHEDULE"),
	}
	if err := errors.Join(parseErrs...); err != nil {
		return Config{}, err
	}

	if fs.Changed("port") {
		cfg.HTTPPort = *port
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var problems []error
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		problems = append(problems, fmt.Errorf("invalid port: %d", c.HTTPPort))
	}
	if c.DBHost == "" || c.DBUser == "" || c.DBName == "" {
		problems = append(problems, errors.New("DB_HOST, DB_USER and DB_NAME are required"))
	}
	if len(c.JWTSecret) < 16 {
		problems = append(problems, errors.New("JWT_SECRET must be at least 16 bytes"))
	}
	if c.GeocoderTimeout <= 0 || c.NotifyTimeout <= 0 {
		problems = append(problems, errors.New("timeouts must be positive"))
	}
	if c.SMTPHost != "" && c.SMTPFrom == "" {
		problems = append(problems, errors.New("SMTP_FROM is required when SMTP_HOST is set"))
	}
	return errors.Join(problems...)
}

// DSN is the postgres connection string for gorm.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// KafkaBrokers splits KafkaHost into broker addresses.
func (c Config) KafkaBrokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaHost, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func stringEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int, problems *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*problems = append(*problems, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func durationEnv(key string, fallback time.Duration, problems *[]error) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*problems = append(*problems, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}
