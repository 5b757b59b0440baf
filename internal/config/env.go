package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// envFiles are tried in order; values already present in the process
// environment always win over file contents.
var envFiles = []string{".env", ".env.local"}

// loadEnvFiles merges .env files into the environment. Missing files are
// fine; only the first readable file is applied.
func loadEnvFiles() {
	for _, path := range envFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err == nil {
			return
		}
	}
}

// envSnapshot copies the process environment into a map so Load reads a
// consistent view.
func envSnapshot() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}
