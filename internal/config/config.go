package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	BotToken      string
	ListenAddr    string
	UsersFile     string
	ErrorLog      string
	JournalDB     string
	RedisAddr     string
	RedisPassword string
	WebhookURL    string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		BotToken:      getEnv("TELEGRAM_BOT_TOKEN", ""),
		ListenAddr:    getEnv("LISTEN_ADDR", ":8080"),
		UsersFile:     getEnv("USERS_FILE", "users.json"),
		ErrorLog:      getEnv("ERROR_LOG", "error.log"),
		JournalDB:     getEnv("JOURNAL_DB", "journal.db"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		WebhookURL:    getEnv("WEBHOOK_URL", ""),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
