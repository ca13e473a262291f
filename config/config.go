package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	SaltRound int

	// Mercado Pago
	MPAccessToken string
	MPAPIBaseURL  string
	MPWebhookURL  string
	MPSuccessURL  string

	// Email
	SendGridAPIKey string
	EmailSender    string
	EmailPassword  string // SMTP password for the fallback transport

	// Bank transfer details shown on checkout when MP is not configured
	TransferCBU   string
	TransferAlias string

	UploadDir string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		MPAccessToken: getEnv("MP_ACCESS_TOKEN", ""),
		MPAPIBaseURL:  getEnv("MP_API_BASE_URL", "https://api.mercadopago.com"),
		MPWebhookURL:  getEnv("MP_WEBHOOK_URL", ""),
		MPSuccessURL:  getEnv("MP_SUCCESS_URL", ""),

		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		EmailSender:    getEnv("EMAIL_SENDER", "no-reply@infinitocapacitaciones.com"),
		EmailPassword:  getEnv("EMAIL_PASSWORD", ""),

		TransferCBU:   getEnv("TRANSFER_CBU", ""),
		TransferAlias: getEnv("TRANSFER_ALIAS", ""),

		UploadDir: getEnv("UPLOAD_DIR", "./uploads"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.MPAccessToken == "" {
		log.Println("Warning: MP_ACCESS_TOKEN not set. Checkout will offer bank transfer only.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
