package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"acornAdmin/internal/shared/normalization"
)

type Config struct {
	Server    ServerConfig
	REST      RESTConfig
	Logging   LoggingConfig
	Security  SecurityConfig
	Kafka     KafkaConfig
	Views     ViewConfig
	Websocket WebsocketConfig
}

type ServerConfig struct {
	Port            string
	ShutdownTimeout time.Duration
}

type RESTConfig struct {
	BaseURL string
	Timeout time.Duration
}

type LoggingConfig struct {
	Directory string
	Level     string
	Format    string
}

// SecurityConfig enables bearer token checks when either key is set.
type SecurityConfig struct {
	JWTSecret    string
	JWTPublicKey string
}

type KafkaConfig struct {
	Brokers []string
	GroupID string
	// Topics maps a screen name to the broker topics that invalidate it.
	Topics map[string][]string
}

type ViewConfig struct {
	SessionTTL       time.Duration
	SweepInterval    time.Duration
	CustomerPageSize int
	ProductPageSize  int
}

type WebsocketConfig struct {
	AllowedActions []string
	SendBuffer     int
}

// Load reads the process environment. Malformed numbers and durations are errors; missing
// values fall back to defaults.
func Load() (*Config, error) {
	var errs []string
	duration := func(key string, fallback time.Duration) time.Duration {
		value, err := envDuration(key, fallback)
		if err != nil {
			errs = append(errs, err.Error())
		}
		return value
	}
	integer := func(key string, fallback int) int {
		value, err := envInt(key, fallback)
		if err != nil {
			errs = append(errs, err.Error())
		}
		return value
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            envString("PORT", "8081"),
			ShutdownTimeout: duration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		REST: RESTConfig{
			BaseURL: envString("REST_BASE_URL", "http://localhost:8080"),
			Timeout: duration("REST_TIMEOUT", 10*time.Second),
		},
		Logging: LoggingConfig{
			Directory: envString("LOG_DIR", "./logs"),
			Level:     envString("LOG_LEVEL", "info"),
			Format:    envString("LOG_FORMAT", "text"),
		},
		Security: SecurityConfig{
			JWTSecret:    envString("JWT_SECRET", ""),
			JWTPublicKey: strings.ReplaceAll(envString("JWT_PUBLIC_KEY", ""), `\n`, "\n"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(firstEnv("KAFKA_BROKERS", "KAFKA_BROKER")),
			GroupID: envString("KAFKA_GROUP_ID", "acorn-admin"),
			Topics:  screenTopics(),
		},
		Views: ViewConfig{
			SessionTTL:       duration("VIEW_SESSION_TTL", 30*time.Minute),
			SweepInterval:    duration("VIEW_SWEEP_INTERVAL", time.Minute),
			CustomerPageSize: integer("CUSTOMER_PAGE_SIZE", 15),
			ProductPageSize:  integer("PRODUCT_PAGE_SIZE", 5),
		},
		Websocket: WebsocketConfig{
			AllowedActions: splitList(envString("WS_ALLOWED_ACTIONS", "created,updated,deleted")),
			SendBuffer:     integer("WS_SEND_BUFFER", 16),
		},
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

// screenTopics reads KAFKA_TOPICS_<SCREEN>, defaulting to "<entity>.events".
func screenTopics() map[string][]string {
	defaults := map[string]string{
		normalization.ScreenCustomers:  "customer.events",
		normalization.ScreenProducts:   "product.events",
		normalization.ScreenCategories: "productB.events",
	}
	topics := make(map[string][]string, len(defaults))
	for _, screen := range normalization.AllScreens() {
		key := "KAFKA_TOPICS_" + strings.ToUpper(screen)
		if list := splitList(envString(key, defaults[screen])); len(list) > 0 {
			topics[screen] = list
		}
	}
	return topics
}

func envString(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := envString(key, ""); value != "" {
			return value
		}
	}
	return ""
}

func envInt(key string, fallback int) (int, error) {
	raw := envString(key, "")
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return value, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := envString(key, "")
	if raw == "" {
		return fallback, nil
	}
	if seconds, err := strconv.Atoi(raw); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return value, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
