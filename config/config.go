package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	// Proxies whose X-Forwarded-For is trusted for the client IP; empty trusts none.
	TrustedProxies []string `mapstructure:"TRUSTED_PROXIES"`

	// Record store: "firebase", "mongo" or "memory".
	StoreBackend string        `mapstructure:"STORE_BACKEND"`
	StoreTimeout time.Duration `mapstructure:"STORE_TIMEOUT"`

	// Firebase (identity, realtime database, messaging).
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	FirebaseDatabaseURL     string `mapstructure:"FIREBASE_DATABASE_URL"`
	FirebaseProjectID       string `mapstructure:"FIREBASE_PROJECT_ID"`

	// MongoDB, used when STORE_BACKEND=mongo.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	MongoDBName string `mapstructure:"MONGO_DB_NAME"`

	// Redis configuration. An empty address disables every Redis-backed feature.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB         int    `mapstructure:"REDIS_CACHE_DB"`
	RedisAuthDB          int    `mapstructure:"REDIS_AUTH_DB"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`

	// Parking session rules.
	Timezone              string        `mapstructure:"TIMEZONE"`
	DefaultSlotNo         string        `mapstructure:"DEFAULT_SLOT_NO"`
	SessionSameDayGrace   bool          `mapstructure:"SESSION_SAME_DAY_GRACE"`
	OverstayReminderAfter time.Duration `mapstructure:"OVERSTAY_REMINDER_AFTER"`

	// Lot status published by the camera detector.
	DetectorAPIKey string        `mapstructure:"DETECTOR_API_KEY"`
	LotStatusTTL   time.Duration `mapstructure:"LOT_STATUS_TTL"`
}

var AppConfig Config

func LoadConfig() {
	// A local .env only fills variables the environment does not already set.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("TRUSTED_PROXIES", []string{})
	viper.SetDefault("STORE_BACKEND", "firebase")
	viper.SetDefault("STORE_TIMEOUT", 5*time.Second)
	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "serviceAccountKey.json")
	viper.SetDefault("FIREBASE_DATABASE_URL", "")
	viper.SetDefault("FIREBASE_PROJECT_ID", "")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DB_NAME", "findmyspot")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_AUTH_DB", 1)
	viper.SetDefault("REDIS_REMINDER_QUEUE_DB", 2)
	viper.SetDefault("TIMEZONE", "Asia/Manila")
	viper.SetDefault("DEFAULT_SLOT_NO", "11")
	viper.SetDefault("SESSION_SAME_DAY_GRACE", true)
	viper.SetDefault("OVERSTAY_REMINDER_AFTER", 6*time.Hour)
	viper.SetDefault("DETECTOR_API_KEY", "")
	viper.SetDefault("LOT_STATUS_TTL", 2*time.Minute)
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// RedisEnabled reports whether a Redis address is configured.
func RedisEnabled() bool {
	return AppConfig.RedisAddr != ""
}
