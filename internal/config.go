package internal

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"fsfplink/internal/utils"
)

const (
	DefaultBaseURL        = "http://127.0.0.1:32030"
	DefaultUsername       = "User"
	DefaultCredentialName = "FSFPL_PIN"
	DefaultNamespace      = "FSFPL"

	configFileName = "fsfplink.json"
)

// Config holds the client settings. Every field has a working default so a
// missing file is not an error.
type Config struct {
	BaseURL        string `json:"baseURL"`
	Username       string `json:"username"`
	CredentialName string `json:"credentialName"`
	Namespace      string `json:"namespace"`
	LogPath        string `json:"logPath"`
	Debug          bool   `json:"debug"`
}

var (
	config     Config
	configOnce sync.Once
)

// LoadConfig reads fsfplink.json once ($FSFPL_CONFIG, then the working dir,
// then the project root) and applies environment overrides.
func LoadConfig() Config {
	configOnce.Do(func() {
		config = LoadConfigFrom(findConfigFile())
	})
	return config
}

// LoadConfigFrom loads a config without caching. An empty path or unreadable
// file yields the defaults.
func LoadConfigFrom(path string) Config {
	var cfg Config
	if path != "" {
		if f, err := os.Open(path); err == nil {
			if err := json.NewDecoder(f).Decode(&cfg); err != nil {
				cfg = Config{}
			}
			f.Close()
		}
	}
	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Username == "" {
		c.Username = DefaultUsername
	}
	if c.CredentialName == "" {
		c.CredentialName = DefaultCredentialName
	}
	if c.Namespace == "" {
		c.Namespace = DefaultNamespace
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
}

func (c *Config) applyEnv() {
	if env := os.Getenv("FSFPL_SERVER"); env != "" {
		c.BaseURL = strings.TrimRight(env, "/")
	}
	if env := os.Getenv("FSFPL_LOG"); env != "" {
		c.LogPath = env
	}
}

// Logger builds the logger the config asks for: a JSON file when LogPath is
// set, the console otherwise.
func (c Config) Logger() (*utils.Logger, error) {
	if c.LogPath == "" {
		return utils.NewConsoleLogger(c.Debug), nil
	}
	return utils.NewLogger(c.LogPath)
}

func findConfigFile() string {
	if env := os.Getenv("FSFPL_CONFIG"); env != "" {
		return env
	}
	for _, dir := range []string{".", utils.GetProjectRoot()} {
		path := filepath.Join(dir, configFileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
