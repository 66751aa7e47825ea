package config

import (
	"os"

	"github.com/joho/godotenv"
)

// DotEnvFiles lists the env files considered for APP_ENV, most specific first
func DotEnvFiles(env string) []string {
	if env == "" {
		return []string{".env.local", ".env"}
	}
	return []string{".env." + env + ".local", ".env.local", ".env." + env, ".env"}
}

// LoadDotEnv loads the existing files of DotEnvFiles(env). godotenv never
// overwrites a variable that is already set, so the process environment wins
// and earlier files win over later ones. Returns the files loaded.
func LoadDotEnv(env string) []string {
	var loaded []string
	for _, f := range DotEnvFiles(env) {
		if _, err := os.Stat(f); err == nil {
			loaded = append(loaded, f)
		}
	}
	if len(loaded) > 0 {
		_ = godotenv.Load(loaded...)
	}
	return loaded
}
