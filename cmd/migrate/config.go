package main

import (
	"os"

	"github.com/joho/godotenv"
)

const defaultMigrationsDir = "db/migrations"

// loadEnvFiles pulls in .env and .env.local; variables already set by the
// runtime (Docker, CI) win over file contents.
func loadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

func migrationsDir() string {
	if dir := os.Getenv("MIGRATIONS_DIR"); dir != "" {
		return dir
	}
	return defaultMigrationsDir
}
