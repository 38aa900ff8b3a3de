package utils

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("ℹ️  No .env file found, continuing...")
	}
}

// GetDatabaseURL resolves the target database. A postgres:// URL selects
// the Postgres adapter; anything else is treated as a SQLite file path.
func GetDatabaseURL() string {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		url = "schemato.db"
	}
	return url
}
