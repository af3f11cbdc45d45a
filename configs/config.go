package configs

import (
	"os"
	"strconv"
	"time"

	"marketplace/pkg/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver  string
	DBSource  string
	Port      string
	AppURL    string
	LogLevel  string
	JWTSecret string
	JWTTTL    time.Duration
	UploadDir string

	AdminEmail    string
	AdminPassword string

	VerificationTTL   time.Duration
	IssueAutoCloseAge time.Duration

	PaystackSecretKey string
	PaystackBaseURL   string

	FlutterwaveSecretKey     string
	FlutterwaveEncryptionKey string
	FlutterwaveBaseURL       string

	FirebaseCredentialsFile string
	GoogleMapsAPIKey        string

	VerifyMeAPIKey  string
	VerifyMeBaseURL string

	RabbitMQURL      string
	RabbitMQExchange string
}

// LoadConfig reads .env (when present) and then the process environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logger.Default().Debug("no .env file loaded, using process environment")
	}

	return &Config{
		DBDriver:  getEnv("DB_DRIVER", "sqlite"),
		DBSource:  getEnv("DB_SOURCE", "marketplace.db"),
		Port:      getEnv("PORT", "8000"),
		AppURL:    getEnv("APP_URL", "http://localhost:3000"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		JWTSecret: getEnv("JWT_SECRET", "changeme"),
		JWTTTL:    getDuration("JWT_TTL", 24*time.Hour),
		UploadDir: getEnv("UPLOAD_DIR", "uploads"),

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		VerificationTTL:   getDuration("VERIFICATION_TTL", 24*time.Hour),
		IssueAutoCloseAge: getDuration("ISSUE_AUTOCLOSE_AFTER", 7*24*time.Hour),

		PaystackSecretKey: os.Getenv("PAYSTACK_SECRET_KEY"),
		PaystackBaseURL:   getEnv("PAYSTACK_BASE_URL", "https://api.paystack.co"),

		FlutterwaveSecretKey:     os.Getenv("FLW_SECRET_KEY"),
		FlutterwaveEncryptionKey: os.Getenv("FLW_ENCRYPTION_KEY"),
		FlutterwaveBaseURL:       getEnv("FLW_BASE_URL", "https://api.flutterwave.com"),

		FirebaseCredentialsFile: os.Getenv("FIREBASE_CREDENTIALS_FILE"),
		GoogleMapsAPIKey:        os.Getenv("GOOGLE_MAPS_API_KEY"),

		VerifyMeAPIKey:  os.Getenv("VERIFYME_API_KEY"),
		VerifyMeBaseURL: getEnv("VERIFYME_BASE_URL", "https://vapi.verifyme.ng"),

		RabbitMQURL:      os.Getenv("RABBITMQ_URL"),
		RabbitMQExchange: getEnv("RABBITMQ_EXCHANGE", "marketplace.events"),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// getDuration accepts Go durations ("36h") or plain seconds ("3600").
func getDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	logger.Default().Warnf("invalid duration for %s=%q, using %s", key, v, fallback)
	return fallback
}
