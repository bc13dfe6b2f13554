package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config stores service settings.
type Config struct {
	Port      int
	LogLevel  string
	DB        DB
	Redis     Redis
	Routing   Routing
	Matching  Matching
	Schedule  Schedule
	Location  Location
	Delivery  Delivery
	Kafka     Kafka
	Earnings  Earnings
	RateLimit RateLimit
	Admin     Admin
}

// DB stores postgres connection settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN builds a postgres connection string.
func (d DB) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Pass),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Redis stores live position store settings.
type Redis struct {
	Addr     string
	Password string
	DB       int
}

// Routing configures the external distance provider.
type Routing struct {
	APIKey      string
	Mode        string
	Timeout     time.Duration
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Matching configures the order matcher.
type Matching struct {
	DefaultRadiusKm float64
	Concurrency     int
	FeeTieBreak     bool
}

// Schedule configures availability checks.
type Schedule struct {
	Timezone string
	Locale   string
	Loc      *time.Location
}

// Location configures the live GPS store.
type Location struct {
	LiveTTL time.Duration
}

// Delivery configures lifecycle transitions.
type Delivery struct {
	OperationTimeout time.Duration
}

// Kafka stores broker settings. Empty Brokers disables kafka.
type Kafka struct {
	Brokers     []string
	GroupID     string
	OrdersTopic string
	StatusTopic string
}

// Earnings configures the payout outbox relay.
type Earnings struct {
	AMQPURL       string
	Exchange      string
	RoutingKey    string
	RelaySchedule string
	BatchSize     int
}

// RateLimit configures the per-key token bucket.
type RateLimit struct {
	Enabled    bool
	Rate       float64
	Burst      int
	TTL        time.Duration
	MaxBuckets int
}

// Admin configures the diagnostics listener.
type Admin struct {
	Enabled bool
	Addr    string
	User    string
	Pass    string
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:      DefaultPort(),
		LogLevel:  "info",
		DB:        DefaultDB(),
		Redis:     DefaultRedis(),
		Routing:   DefaultRouting(),
		Matching:  DefaultMatching(),
		Schedule:  DefaultSchedule(),
		Location:  DefaultLocation(),
		Delivery:  DefaultDelivery(),
		Kafka:     DefaultKafka(),
		Earnings:  DefaultEarnings(),
		RateLimit: DefaultRateLimit(),
		Admin:     DefaultAdmin(),
	}

	if err := loadEnv(cfg); err != nil {
		return nil, err
	}

	pflag.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	pflag.Float64Var(&cfg.Matching.DefaultRadiusKm, "radius", cfg.Matching.DefaultRadiusKm, "default match radius in km")
	if err := pflag.CommandLine.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load schedule timezone %q: %w", cfg.Schedule.Timezone, err)
	}
	cfg.Schedule.Loc = loc

	return cfg, nil
}

func loadEnv(cfg *Config) error {
	var err error

	if cfg.Port, err = envInt("PORT", cfg.Port); err != nil {
		return err
	}

	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)

	cfg.DB.Host = envString("POSTGRES_HOST", cfg.DB.Host)
	cfg.DB.Port = envString("POSTGRES_PORT", cfg.DB.Port)
	if _, err := strconv.Atoi(cfg.DB.Port); err != nil {
		return fmt.Errorf("parse POSTGRES_PORT: %w", err)
	}
	cfg.DB.User = envString("POSTGRES_USER", cfg.DB.User)
	cfg.DB.Pass = envString("POSTGRES_PASSWORD", cfg.DB.Pass)
	cfg.DB.Name = envString("POSTGRES_DB", cfg.DB.Name)

	cfg.Redis.Addr = envString("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = envString("REDIS_PASSWORD", cfg.Redis.Password)
	if cfg.Redis.DB, err = envInt("REDIS_DB", cfg.Redis.DB); err != nil {
		return err
	}

	cfg.Routing.APIKey = envString("GOOGLE_MAPS_API_KEY", cfg.Routing.APIKey)
	cfg.Routing.Mode = envString("ROUTING_MODE", cfg.Routing.Mode)
	if cfg.Routing.Timeout, err = envDuration("ROUTING_TIMEOUT", cfg.Routing.Timeout); err != nil {
		return err
	}
	if cfg.Routing.MaxAttempts, err = envInt("ROUTING_MAX_ATTEMPTS", cfg.Routing.MaxAttempts); err != nil {
		return err
	}
	if cfg.Routing.BaseDelay, err = envDuration("ROUTING_BASE_DELAY", cfg.Routing.BaseDelay); err != nil {
		return err
	}
	if cfg.Routing.MaxDelay, err = envDuration("ROUTING_MAX_DELAY", cfg.Routing.MaxDelay); err != nil {
		return err
	}

	if cfg.Matching.DefaultRadiusKm, err = envFloat("MATCH_DEFAULT_RADIUS_KM", cfg.Matching.DefaultRadiusKm); err != nil {
		return err
	}
	if cfg.Matching.Concurrency, err = envInt("MATCH_CONCURRENCY", cfg.Matching.Concurrency); err != nil {
		return err
	}
	if cfg.Matching.FeeTieBreak, err = envBool("MATCH_FEE_TIE_BREAK", cfg.Matching.FeeTieBreak); err != nil {
		return err
	}

	cfg.Schedule.Timezone = envString("SCHEDULE_TZ", cfg.Schedule.Timezone)
	cfg.Schedule.Locale = envString("SCHEDULE_LOCALE", cfg.Schedule.Locale)

	if cfg.Location.LiveTTL, err = envDuration("LOCATION_LIVE_TTL", cfg.Location.LiveTTL); err != nil {
		return err
	}

	if cfg.Delivery.OperationTimeout, err = envDuration("DELIVERY_OPERATION_TIMEOUT", cfg.Delivery.OperationTimeout); err != nil {
		return err
	}

	cfg.Kafka.Brokers = envList("KAFKA_BROKERS", cfg.Kafka.Brokers)
	cfg.Kafka.GroupID = envString("KAFKA_GROUP_ID", cfg.Kafka.GroupID)
	cfg.Kafka.OrdersTopic = envString("KAFKA_ORDERS_TOPIC", cfg.Kafka.OrdersTopic)
	cfg.Kafka.StatusTopic = envString("KAFKA_STATUS_TOPIC", cfg.Kafka.StatusTopic)

	cfg.Earnings.AMQPURL = envString("AMQP_URL", cfg.Earnings.AMQPURL)
	cfg.Earnings.Exchange = envString("EARNINGS_EXCHANGE", cfg.Earnings.Exchange)
	cfg.Earnings.RoutingKey = envString("EARNINGS_ROUTING_KEY", cfg.Earnings.RoutingKey)
	cfg.Earnings.RelaySchedule = envString("EARNINGS_RELAY_SCHEDULE", cfg.Earnings.RelaySchedule)
	if cfg.Earnings.BatchSize, err = envInt("EARNINGS_RELAY_BATCH", cfg.Earnings.BatchSize); err != nil {
		return err
	}

	if cfg.RateLimit.Enabled, err = envBool("RATE_LIMIT_ENABLED", cfg.RateLimit.Enabled); err != nil {
		return err
	}
	if cfg.RateLimit.Rate, err = envFloat("RATE_LIMIT_RATE", cfg.RateLimit.Rate); err != nil {
		return err
	}
	if cfg.RateLimit.Burst, err = envInt("RATE_LIMIT_BURST", cfg.RateLimit.Burst); err != nil {
		return err
	}
	if cfg.RateLimit.TTL, err = envDuration("RATE_LIMIT_TTL", cfg.RateLimit.TTL); err != nil {
		return err
	}
	if cfg.RateLimit.MaxBuckets, err = envInt("RATE_LIMIT_MAX_BUCKETS", cfg.RateLimit.MaxBuckets); err != nil {
		return err
	}

	if cfg.Admin.Enabled, err = envBool("ADMIN_ENABLED", cfg.Admin.Enabled); err != nil {
		return err
	}
	cfg.Admin.Addr = envString("ADMIN_ADDR", cfg.Admin.Addr)
	cfg.Admin.User = envString("ADMIN_USER", cfg.Admin.User)
	cfg.Admin.Pass = envString("ADMIN_PASSWORD", cfg.Admin.Pass)
	return nil
}

func validate(cfg *Config) error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.Matching.DefaultRadiusKm <= 0 {
		return fmt.Errorf("invalid default radius: %v", cfg.Matching.DefaultRadiusKm)
	}
	if cfg.Matching.Concurrency <= 0 {
		return fmt.Errorf("invalid match concurrency: %d", cfg.Matching.Concurrency)
	}
	if cfg.Routing.Timeout <= 0 {
		return fmt.Errorf("invalid routing timeout: %v", cfg.Routing.Timeout)
	}
	if cfg.Routing.MaxAttempts <= 0 {
		return fmt.Errorf("invalid routing max attempts: %d", cfg.Routing.MaxAttempts)
	}
	if cfg.Delivery.OperationTimeout <= 0 {
		return fmt.Errorf("invalid delivery operation timeout: %v", cfg.Delivery.OperationTimeout)
	}
	return nil
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, def float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return f, nil
}

func envBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return b, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func envList(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
