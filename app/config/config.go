package config

import (
	"database/sql"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Port          string
	DatabaseURL   string
	JWTSecret     string
	BaseURL       string
	InstituteName string
	SMTP          SMTPConfig
	MailTimeout   time.Duration

	DB *sql.DB
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

var AppConfig *Config

// DefaultJWTSecret signs tokens when JWT_SECRET is unset. Development only.
const DefaultJWTSecret = "career-compass-secret-key"

// Load reads configuration from the environment. A .env file is loaded if
// present so local runs don't need exported variables.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port:          getEnv("PORT", "5000"),
		DatabaseURL:   getEnv("DATABASE_URL", "host=localhost port=5432 user=postgres dbname=career_compass sslmode=disable"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		BaseURL:       getEnv("BASE_URL", "http://localhost:5000"),
		InstituteName: getEnv("INSTITUTE_NAME", "Career Compass Institute"),
		MailTimeout:   15 * time.Second,
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
		},
	}

	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET not set, using development default")
		cfg.JWTSecret = DefaultJWTSecret
	}
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.Username
	}

	AppConfig = cfg
	return cfg
}

// InitDB opens the Postgres connection pool and verifies it with a ping.
func InitDB() {
	if AppConfig == nil {
		Load()
	}

	db, err := sql.Open("postgres", AppConfig.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to open database connection: ", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	log.Info("Testing database connection...")
	if err = db.Ping(); err != nil {
		log.Fatal("Cannot establish database connection: ", err)
	}

	AppConfig.DB = db
	log.Info("Database connected successfully")
}

func GetDB() *sql.DB {
	return AppConfig.DB
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warnf("Invalid value for %s, using default %d", key, fallback)
	}
	return fallback
}
