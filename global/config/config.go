package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// MongoConfig locates the identity directory (the Booking4U users
// collection). The relay only reads from it.
type MongoConfig struct {
	URI            string
	Database       string
	UserCollection string
	ConnectTimeout time.Duration
}

// RedisConfig locates the best-effort presence mirror. Leave Addr empty to
// run without one.
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	PresenceTTL time.Duration
}

// AppConfig is the relay's full configuration surface. Every value is
// externally supplied; the relay consumes but never mutates it.
type AppConfig struct {
	ListenAddr     string
	NodeID         int64    // snowflake node id (0~1023)
	AllowedOrigins []string // empty or "*" allows any origin

	HandshakeTimeout time.Duration // websocket upgrade
	AuthTimeout      time.Duration // waiting for the handshake token frame
	IdleTimeout      time.Duration // read deadline between client events
	WriteTimeout     time.Duration // per-frame write deadline
	PingInterval     time.Duration // transport-level keepalive

	MaxPayloadBytes   int64
	EnableCompression bool

	JWTSecret string

	Mongo MongoConfig
	Redis RedisConfig
}

// Load builds the configuration from environment variables with defaults
// suitable for local development.
func Load() *AppConfig {
	return &AppConfig{
		ListenAddr:     getEnv("RELAY_ADDR", ":8084"),
		NodeID:         int64(getInt("RELAY_NODE_ID", 1)),
		AllowedOrigins: splitList(getEnv("RELAY_ALLOWED_ORIGINS", "http://localhost:3000")),

		HandshakeTimeout: getDuration("RELAY_HANDSHAKE_TIMEOUT_SECONDS", 10),
		AuthTimeout:      getDuration("RELAY_AUTH_TIMEOUT_SECONDS", 10),
		IdleTimeout:      getDuration("RELAY_IDLE_TIMEOUT_SECONDS", 75),
		WriteTimeout:     getDuration("RELAY_WRITE_TIMEOUT_SECONDS", 10),
		PingInterval:     getDuration("RELAY_PING_INTERVAL_SECONDS", 25),

		MaxPayloadBytes:   int64(getInt("RELAY_MAX_PAYLOAD_BYTES", 1<<20)),
		EnableCompression: getBool("RELAY_ENABLE_COMPRESSION", true),

		JWTSecret: getEnv("JWT_SECRET", "booking4u-dev-secret"),

		Mongo: MongoConfig{
			URI:            getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:       getEnv("MONGO_DATABASE", "booking4u"),
			UserCollection: getEnv("MONGO_USER_COLLECTION", "users"),
			ConnectTimeout: getDuration("MONGO_CONNECT_TIMEOUT_SECONDS", 10),
		},
		Redis: RedisConfig{
			Addr:        getEnv("REDIS_ADDR", ""),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          getInt("REDIS_DB", 0),
			PresenceTTL: getDuration("PRESENCE_TTL_SECONDS", 120),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDuration(key string, defaultSeconds int) time.Duration {
	return time.Duration(getInt(key, defaultSeconds)) * time.Second
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
