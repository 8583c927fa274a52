/*
Package config manages TOML config for fuzzdict services.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/fuzzdict/fuzzdict/internal/utils"
)

// Config holds the entire config structure
type Config struct {
	Resolver ResolverConfig `toml:"resolver"`
	Server   ServerConfig   `toml:"server"`
	CLI      CliConfig      `toml:"cli"`
}

// ResolverConfig has fuzzy resolution options.
type ResolverConfig struct {
	Threshold    int    `toml:"threshold"`
	Separator    string `toml:"separator"`
	Algorithm    string `toml:"algorithm"`
	FuzzyEnabled bool   `toml:"fuzzy_enabled"`
}

// ServerConfig has IPC server related options.
type ServerConfig struct {
	MaxPathLen int `toml:"max_path_len"`
	MaxDepth   int `toml:"max_depth"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit int  `toml:"default_limit"`
	ShowScores   bool `toml:"show_scores"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
// 4. builtin defaults
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		execDir, execErr := utils.GetExecutableDir()
		if execErr != nil {
			return "", execErr
		}
		return execDir, nil
	}
	primaryPath := filepath.Join(homeDir, ".config", "fuzzdict")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	// Not conventional, fallback from ~/.config if not writable
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "fuzzdict")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/fuzzdict/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	var config *Config
	var err error

	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err = LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err = InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Resolver: ResolverConfig{
			Threshold:    75,
			Separator:    ".",
			Algorithm:    "jaro-winkler",
			FuzzyEnabled: false,
		},
		Server: ServerConfig{
			MaxPathLen: 256,
			MaxDepth:   32,
		},
		CLI: CliConfig{
			DefaultLimit: 10,
			ShowScores:   true,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	config.clampValues()
	return config, nil
}

// tryPartialParse attempts to parse a TOML file
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if resolverSection, ok := utils.ExtractSection(tempConfig, "resolver"); ok {
		extractResolverConfig(resolverSection, &config.Resolver)
	}
	if serverSection, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(serverSection, &config.Server)
	}
	if cliSection, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(cliSection, &config.CLI)
	}
	config.clampValues()
	return config, nil
}

// extractResolverConfig extracts resolver configuration from a map
func extractResolverConfig(data map[string]any, resolver *ResolverConfig) {
	if val, ok := utils.ExtractInt64(data, "threshold"); ok {
		resolver.Threshold = val
	}
	if val, ok := utils.ExtractString(data, "separator"); ok {
		resolver.Separator = val
	}
	if val, ok := utils.ExtractString(data, "algorithm"); ok {
		resolver.Algorithm = val
	}
	if val, ok := utils.ExtractBool(data, "fuzzy_enabled"); ok {
		resolver.FuzzyEnabled = val
	}
}

// extractServerConfig extracts server configuration from a map
func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_path_len"); ok {
		server.MaxPathLen = val
	}
	if val, ok := utils.ExtractInt64(data, "max_depth"); ok {
		server.MaxDepth = val
	}
}

// extractCliConfig extracts CLI config from a map
func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.ExtractBool(data, "show_scores"); ok {
		cli.ShowScores = val
	}
}

// clampValues keeps loaded values inside usable ranges.
// The threshold is a similarity score, hard-bounded to [0,100];
// an empty separator would make every path one segment.
func (c *Config) clampValues() {
	if c.Resolver.Threshold < 0 {
		c.Resolver.Threshold = 0
	}
	if c.Resolver.Threshold > 100 {
		c.Resolver.Threshold = 100
	}
	if c.Resolver.Separator == "" {
		c.Resolver.Separator = "."
	}
	if c.Server.MaxPathLen < 1 {
		c.Server.MaxPathLen = 256
	}
	if c.Server.MaxDepth < 1 {
		c.Server.MaxDepth = 32
	}
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the config values and saves to file
func (c *Config) Update(configPath string, threshold *int, fuzzyEnabled *bool, algorithm *string) error {
	resolver := &c.Resolver
	if threshold != nil {
		resolver.Threshold = *threshold
	}
	if fuzzyEnabled != nil {
		resolver.FuzzyEnabled = *fuzzyEnabled
	}
	if algorithm != nil {
		resolver.Algorithm = *algorithm
	}
	c.clampValues()
	return SaveConfig(c, configPath)
}
