package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port                    string        `mapstructure:"PORT"`
	Env                     string        `mapstructure:"ENV"`
	PodHost                 string        `mapstructure:"POD_HOST"`
	Locale                  string        `mapstructure:"LOCALE"`
	FirebaseCredentialsPath string        `mapstructure:"FIREBASE_CREDENTIALS_PATH"`
	PostgresConnStr         string        `mapstructure:"POSTGRES_CONN_STR"`
	MongoURI                string        `mapstructure:"MONGO_URI"`
	MongoDatabase           string        `mapstructure:"MONGO_DATABASE"`
	RedisAddr               string        `mapstructure:"REDIS_ADDR"`
	RedisPassword           string        `mapstructure:"REDIS_PASSWORD"`
	JWTSecret               string        `mapstructure:"JWT_SECRET"`
	AccessTokenTTL          time.Duration `mapstructure:"ACCESS_TOKEN_TTL"`
	LogLevel                string        `mapstructure:"LOG_LEVEL"`
	LogFile                 string        `mapstructure:"LOG_FILE"`
	Storage                 StorageConfig `mapstructure:",squash"`
}

type StorageConfig struct {
	Type           string `mapstructure:"STORAGE_TYPE"` // local or s3
	LocalPath      string `mapstructure:"STORAGE_LOCAL_PATH"`
	BaseURL        string `mapstructure:"STORAGE_BASE_URL"`
	S3Bucket       string `mapstructure:"S3_BUCKET"`
	S3Region       string `mapstructure:"S3_REGION"`
	S3AccessKey    string `mapstructure:"S3_ACCESS_KEY"`
	S3SecretKey    string `mapstructure:"S3_SECRET_KEY"`
	UploadMaxBytes int64  `mapstructure:"UPLOAD_MAX_BYTES"`
	// UploadMaxPixels bounds width*height declared by an uploaded image.
	UploadMaxPixels int64 `mapstructure:"UPLOAD_MAX_PIXELS"`
}

var defaults = map[string]any{
	"PORT":                      "8080",
	"ENV":                       "development",
	"POD_HOST":                  "localhost:8080",
	"LOCALE":                    "en",
	"FIREBASE_CREDENTIALS_PATH": "",
	"POSTGRES_CONN_STR":         "",
	"MONGO_URI":                 "",
	"MONGO_DATABASE":            "socialpod",
	"REDIS_ADDR":                "",
	"REDIS_PASSWORD":            "",
	"JWT_SECRET":                "supersecretjwtkey",
	"ACCESS_TOKEN_TTL":          "72h",
	"LOG_LEVEL":                 "info",
	"LOG_FILE":                  "",
	"STORAGE_TYPE":              "local",
	"STORAGE_LOCAL_PATH":        "./uploads",
	"STORAGE_BASE_URL":          "http://localhost:8080/uploads",
	"S3_BUCKET":                 "",
	"S3_REGION":                 "us-east-1",
	"S3_ACCESS_KEY":             "",
	"S3_SECRET_KEY":             "",
	"UPLOAD_MAX_BYTES":          10 << 20,
	"UPLOAD_MAX_PIXELS":         40_000_000,
}

// Load reads .env (when present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("Failed to parse configuration: %v", err)
	}
	return &cfg
}
