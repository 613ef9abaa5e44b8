package config

import (
	"github.com/joho/godotenv"
)

// LoadProviderEnv loads ~/.tide/.env into the process environment so that
// providers can read secrets such as API keys. Variables already set win.
// A missing file is not an error.
func LoadProviderEnv() error {
	path, err := EnvFile()
	if err != nil {
		return err
	}
	if !FileExists(path) {
		return nil
	}
	return godotenv.Load(path)
}
