package helpers

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		// Not fatal, just log the error and continue
		log.Println("Couldn't load .env file:", err)
	}
}

// GetEnvVariable returns a required environment variable and stops the
// process when it is not set.
func GetEnvVariable(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("%s not set", key)
	}
	return value
}

// GetEnvOr returns an optional environment variable or a fallback.
func GetEnvOr(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
