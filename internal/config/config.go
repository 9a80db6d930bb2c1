package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	perrors "github.com/zhubert/sessionhop/internal/errors"
)

// HomeEnv overrides the directory holding config.json.
const HomeEnv = "SESSIONHOP_HOME"

const (
	DefaultPollIntervalSeconds  = 2
	DefaultSwitchTimeoutSeconds = 10
)

// DefaultSwitchCommand runs the multiplexer for the resolved session.
// Placeholders: {session}, {layout} (the layout file) and {cwd}.
var DefaultSwitchCommand = []string{"zellij", "--layout", "{layout}", "attach", "--create", "{session}"}

// DefaultListCommand prints one live session name per line.
var DefaultListCommand = []string{"zellij", "list-sessions", "--short", "--no-formatting"}

// DefaultReservedWords are the alias words never treated as targets.
var DefaultReservedWords = []string{"session-select", "session-index"}

// Config holds the daemon configuration
type Config struct {
	SocketPath           string   `json:"socket_path,omitempty"`            // Unix socket the daemon listens on
	ReservedWords        []string `json:"reserved_words"`                   // Bare words that are never targets
	SwitchCommand        []string `json:"switch_command,omitempty"`         // argv template for the switch effect
	ListCommand          []string `json:"list_command"`                     // argv listing live sessions; empty disables polling
	PollIntervalSeconds  int      `json:"poll_interval_seconds,omitempty"`  // Seconds between list command runs
	SwitchTimeoutSeconds int      `json:"switch_timeout_seconds,omitempty"` // Upper bound for one switch command
	NotificationsEnabled bool     `json:"notifications_enabled,omitempty"`  // Desktop notification when a switch fails

	mu       sync.RWMutex
	filePath string
}

// configDir returns the path to the config directory
func configDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".sessionhop"), nil
}

// configPath returns the path to the config file
func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// DefaultSocketPath is where the daemon listens when no socket is configured.
func DefaultSocketPath() string {
	return filepath.Join(os.TempDir(), "sessionhop.sock")
}

// Default returns a config with every field at its default, not tied to a file.
func Default() *Config {
	cfg := &Config{}
	cfg.ensureInitialized()
	return cfg
}

// Load reads the config from disk, or returns defaults if it doesn't exist
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, perrors.ConfigLoadFailed("config dir", err)
	}

	cfg := &Config{filePath: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg.ensureInitialized()
		return cfg, nil
	}
	if err != nil {
		return nil, perrors.ConfigLoadFailed(path, err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, perrors.ConfigLoadFailed(path, err)
	}

	// Fill defaults before Validate() since Validate() only reads
	cfg.ensureInitialized()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ensureInitialized fills unset fields with defaults.
//
// Not thread-safe: only called from Load() and Default() before the Config
// is shared.
func (c *Config) ensureInitialized() {
	if c.SocketPath == "" {
		c.SocketPath = DefaultSocketPath()
	}
	if c.ReservedWords == nil {
		c.ReservedWords = slices.Clone(DefaultReservedWords)
	}
	if len(c.SwitchCommand) == 0 {
		c.SwitchCommand = slices.Clone(DefaultSwitchCommand)
	}
	if c.ListCommand == nil {
		c.ListCommand = slices.Clone(DefaultListCommand)
	}
	if c.PollIntervalSeconds == 0 {
		c.PollIntervalSeconds = DefaultPollIntervalSeconds
	}
	if c.SwitchTimeoutSeconds == 0 {
		c.SwitchTimeoutSeconds = DefaultSwitchTimeoutSeconds
	}
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.SwitchCommand) == 0 || c.SwitchCommand[0] == "" {
		return perrors.ConfigInvalid("switch_command must name an executable")
	}
	if len(c.ListCommand) > 0 && c.ListCommand[0] == "" {
		return perrors.ConfigInvalid("list_command must name an executable")
	}
	if c.PollIntervalSeconds < 0 {
		return perrors.ConfigInvalid(fmt.Sprintf("poll_interval_seconds must be positive, got %d", c.PollIntervalSeconds))
	}
	if c.SwitchTimeoutSeconds < 0 {
		return perrors.ConfigInvalid(fmt.Sprintf("switch_timeout_seconds must be positive, got %d", c.SwitchTimeoutSeconds))
	}

	seen := make(map[string]bool)
	for _, w := range c.ReservedWords {
		if w == "" {
			return perrors.ConfigInvalid("empty reserved word found")
		}
		if seen[w] {
			return perrors.ConfigInvalid(fmt.Sprintf("duplicate reserved word: %s", w))
		}
		seen[w] = true
	}

	return nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.filePath == "" {
		path, err := configPath()
		if err != nil {
			return perrors.ConfigSaveFailed("config dir", err)
		}
		c.filePath = path
	}

	if err := os.MkdirAll(filepath.Dir(c.filePath), 0755); err != nil {
		return perrors.ConfigSaveFailed(c.filePath, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return perrors.ConfigSaveFailed(c.filePath, err)
	}

	if err := os.WriteFile(c.filePath, data, 0644); err != nil {
		return perrors.ConfigSaveFailed(c.filePath, err)
	}
	return nil
}

// Path returns the file the config was loaded from or will be saved to.
func (c *Config) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filePath
}

// GetSocketPath returns the daemon socket path
func (c *Config) GetSocketPath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.SocketPath
}

// SetSocketPath sets the daemon socket path
func (c *Config) SetSocketPath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.SocketPath = path
}

// GetReservedWords returns a copy of the reserved word table
func (c *Config) GetReservedWords() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.ReservedWords)
}

// AddReservedWord adds a word to the reserved table, returning false if present
func (c *Config) AddReservedWord(word string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if word == "" || slices.Contains(c.ReservedWords, word) {
		return false
	}
	c.ReservedWords = append(c.ReservedWords, word)
	return true
}

// RemoveReservedWord removes a word from the reserved table
func (c *Config) RemoveReservedWord(word string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := slices.Index(c.ReservedWords, word)
	if i < 0 {
		return false
	}
	c.ReservedWords = slices.Delete(c.ReservedWords, i, i+1)
	return true
}

// GetSwitchCommand returns a copy of the switch argv template
func (c *Config) GetSwitchCommand() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.SwitchCommand)
}

// GetListCommand returns a copy of the list argv, empty when polling is off
func (c *Config) GetListCommand() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.ListCommand)
}

// GetPollInterval returns the time between list command runs
func (c *Config) GetPollInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// GetSwitchTimeout returns the upper bound for one switch command
func (c *Config) GetSwitchTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Duration(c.SwitchTimeoutSeconds) * time.Second
}

// GetNotificationsEnabled returns whether failed switches raise a notification
func (c *Config) GetNotificationsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.NotificationsEnabled
}

// SetNotificationsEnabled sets whether failed switches raise a notification
func (c *Config) SetNotificationsEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.NotificationsEnabled = enabled
}
