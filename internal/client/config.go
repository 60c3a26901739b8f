package client

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/fruitnut/fruitnut-backend/pkg/config"
)

// Config points the client at an API and a session file.
type Config struct {
	BaseURL     string        `envconfig:"FRUITNUT_API_URL" default:"http://localhost:8080"`
	SessionFile string        `envconfig:"FRUITNUT_SESSION_FILE"`
	Timeout     time.Duration `envconfig:"FRUITNUT_API_TIMEOUT" default:"10s"`
}

// LoadConfig reads the client settings from the environment. An empty
// session file path falls back to the user config directory.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process(config.EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing client config: %w", err)
	}
	if cfg.SessionFile == "" {
		path, err := DefaultSessionPath()
		if err != nil {
			return Config{}, err
		}
		cfg.SessionFile = path
	}
	return cfg, nil
}

// DefaultSessionPath is where the CLI keeps its tokens when nothing else is
// configured.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "fruitnut", "session.json"), nil
}
