package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all application configuration
type Config struct {
	Lookup  LookupConfig  `toml:"lookup"`
	LLM     LLMConfig     `toml:"llm"`
	Threads ThreadsConfig `toml:"threads"`
	Theme   ThemeConfig   `toml:"theme"`
	Display DisplayConfig `toml:"display"`
	Log     LogConfig     `toml:"log"`
}

// LookupConfig holds the process-wide window tunables
type LookupConfig struct {
	ContextWindow int `toml:"context_window"` // lines for before/after reads
	InitWindow    int `toml:"init_window"`    // lines around a resolved caption
}

// LLMConfig configures the chat endpoint
type LLMConfig struct {
	BaseURL           string   `toml:"base_url"`
	Model             string   `toml:"model"`
	APIKeyEnv         string   `toml:"api_key_env"`
	TimeoutSeconds    int      `toml:"timeout_seconds"`
	Temperature       *float64 `toml:"temperature,omitempty"`
	MaxToolRounds     int      `toml:"max_tool_rounds"`
	RequestsPerMinute int      `toml:"requests_per_minute"`
}

// ThreadsConfig controls conversation persistence
type ThreadsConfig struct {
	Dir      string `toml:"dir"`       // empty picks the XDG data dir
	InMemory bool   `toml:"in_memory"` // discard threads on exit
}

// ThemeConfig defines the transcript colors
type ThemeConfig struct {
	Name          string     `toml:"name"`
	LineNumbers   string     `toml:"line_numbers"`
	StatusBar     string     `toml:"status_bar"`
	StatusBarText string     `toml:"status_bar_text"`
	Highlight     string     `toml:"highlight"`
	Kinds         KindColors `toml:"kinds"`
}

// KindColors defines colors per subtitle line kind
type KindColors struct {
	Identifier string `toml:"identifier"`
	Timing     string `toml:"timing"`
	Text       string `toml:"text"`
}

// DisplayConfig holds display options
type DisplayConfig struct {
	ShowLineNumbers bool `toml:"show_line_numbers"`
	SyntaxHighlight bool `toml:"syntax_highlight"`
}

// LogConfig directs the application log
type LogConfig struct {
	File  string `toml:"file"`  // empty disables logging
	Level string `toml:"level"` // debug, info, warn, error
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Lookup: LookupConfig{
			ContextWindow: 10,
			InitWindow:    20,
		},
		LLM: LLMConfig{
			APIKeyEnv:         "OPENAI_API_KEY",
			TimeoutSeconds:    60,
			MaxToolRounds:     8,
			RequestsPerMinute: 60,
		},
		Theme: ThemeConfig{
			Name:          "subtle",
			LineNumbers:   "240", // Dark gray
			StatusBar:     "236", // Darker gray background
			StatusBarText: "252", // Light gray text
			Highlight:     "226", // Yellow
			Kinds: KindColors{
				Identifier: "244", // Medium gray
				Timing:     "73",  // Muted cyan
				Text:       "252", // Light gray
			},
		},
		Display: DisplayConfig{
			ShowLineNumbers: true,
			SyntaxHighlight: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads config from path, or the default location when path is empty,
// falling back to defaults
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = getConfigPath()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.clamp()
	return cfg, nil
}

// clamp keeps the window tunables non-negative
func (c *Config) clamp() {
	if c.Lookup.ContextWindow < 0 {
		c.Lookup.ContextWindow = 0
	}
	if c.Lookup.InitWindow < 0 {
		c.Lookup.InitWindow = 0
	}
}

// Save saves config to the default location
func Save(cfg *Config) error {
	configPath := getConfigPath()
	if configPath == "" {
		return nil
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// ThreadsDir resolves the directory for persisted threads
func (c *Config) ThreadsDir() string {
	if c.Threads.Dir != "" {
		return c.Threads.Dir
	}

	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "subseek", "threads")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "threads"
	}
	return filepath.Join(home, ".local", "share", "subseek", "threads")
}

// getConfigPath returns the config file path
func getConfigPath() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "subseek", "config.toml")
	}

	// Fall back to ~/.config
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "subseek", "config.toml")
}

// GetConfigPath exports the config path for user reference
func GetConfigPath() string {
	return getConfigPath()
}
