package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type ProviderConfig struct {
	ID       string `toml:"id"`
	Endpoint string `toml:"endpoint"`
	BaseURL  string `toml:"base_url,omitempty"`
	Model    string `toml:"model,omitempty"`
	APIKey   string `toml:"api_key,omitempty"`
}

type UserConfig struct {
	Provider      ProviderConfig `toml:"provider"`
	AssistantName string         `toml:"assistant_name"`
	ShowThinking  bool           `toml:"show_thinking"`
}

type Config struct {
	DataDirectory string
	ProviderID    string
	Endpoint      string
	BaseURL       string
	Model         string
	APIKey        string
	AssistantName string
	ShowThinking  bool
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) applyEnvOverrides() {
	if endpoint := os.Getenv("CEPYX_ENDPOINT"); endpoint != "" {
		c.Endpoint = endpoint
	}
	if provider := os.Getenv("CEPYX_PROVIDER"); provider != "" {
		c.ProviderID = provider
	}
	if model := os.Getenv("CEPYX_MODEL"); model != "" {
		c.Model = model
	}
	if apiKey := os.Getenv("CEPYX_API_KEY"); apiKey != "" {
		c.APIKey = apiKey
	}
	if dataDir := os.Getenv("CEPYX_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
}

func CheckDebug() bool {
	debug := os.Getenv("CEPYX_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600: debug output may contain conversation content
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (CEPYX_DEBUG=%s) ===", os.Getenv("CEPYX_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

func Load() (*Config, error) {
	defaults := DefaultUserConfig()
	cfg := &Config{
		DataDirectory: DefaultSystemConfig().DataDirectory,
		ProviderID:    defaults.Provider.ID,
		Endpoint:      defaults.Provider.Endpoint,
		BaseURL:       defaults.Provider.BaseURL,
		Model:         defaults.Provider.Model,
		APIKey:        defaults.Provider.APIKey,
		AssistantName: defaults.AssistantName,
		ShowThinking:  defaults.ShowThinking,
	}

	systemCfg, err := LoadSystemConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load system config: %w", err)
	}
	cfg.DataDirectory = systemCfg.DataDirectory

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	cfg.ProviderID = userCfg.Provider.ID
	cfg.Endpoint = userCfg.Provider.Endpoint
	cfg.BaseURL = userCfg.Provider.BaseURL
	cfg.Model = userCfg.Provider.Model
	cfg.APIKey = userCfg.Provider.APIKey
	if userCfg.AssistantName != "" {
		cfg.AssistantName = userCfg.AssistantName
	}
	cfg.ShowThinking = userCfg.ShowThinking

	cfg.applyEnvOverrides()

	dataDir = cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	return cfg, nil
}
