package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	DBDSN    string
	MediaDir string
	LogFile  string

	CloudinaryURL    string
	CloudinaryFolder string

	AdminDefaultPIN string
	WhatsAppNumber  string
	MaxUploadBytes  int
	StoreTimeout    time.Duration
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] no .env file found, using environment variables")
	}

	cfg := Config{
		Port:             getEnv("PORT", "8080"),
		DBDSN:            getEnv("DB_DSN", "storefront.db"), // sqlite file in project root
		MediaDir:         getEnv("MEDIA_DIR", "./web/media"),
		LogFile:          getEnv("LOG_FILE", "./storefront.log"),
		CloudinaryURL:    getEnv("CLOUDINARY_URL", ""),
		CloudinaryFolder: getEnv("CLOUDINARY_FOLDER", "storefront/products"),
		AdminDefaultPIN:  getEnv("ADMIN_DEFAULT_PIN", "admin123"),
		WhatsAppNumber:   getEnv("WHATSAPP_NUMBER", "918179771029"),
		MaxUploadBytes:   getEnvInt("MAX_UPLOAD_MB", 10) << 20,
		StoreTimeout:     time.Duration(getEnvInt("STORE_TIMEOUT_SECONDS", 10)) * time.Second,
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 << 20
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = 10 * time.Second
	}

	blobs := "local"
	if cfg.CloudinaryURL != "" {
		blobs = "cloudinary"
	}
	log.Printf("[config] PORT=%s DB_DSN=%s MEDIA_DIR=%s LOG_FILE=%s BLOBS=%s WHATSAPP=%s",
		cfg.Port, cfg.DBDSN, cfg.MediaDir, cfg.LogFile, blobs, cfg.WhatsAppNumber)
	return cfg
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
