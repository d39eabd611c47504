package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Checkout modes.
const (
	CheckoutExisting = "existing" // restore only files that exist in the working directory
	CheckoutAll      = "all"      // also recreate files missing from the working directory
)

// DefaultRootName is the repository control directory name.
const DefaultRootName = ".gvt"

// Config holds application configuration.
type Config struct {
	// RootName is the control directory created by init, relative to the working directory.
	RootName string `json:"root_name,omitempty"`

	// LogLevel is a zerolog level name (debug, info, warn, error).
	// GVT_LOG_LEVEL and --log-level override it.
	LogLevel string `json:"log_level,omitempty"`

	// CheckoutMode selects which working files checkout restores: "existing" or "all".
	CheckoutMode string `json:"checkout_mode,omitempty"`

	// HistoryLimit is the default number of history lines when no count is given.
	// 0 means the full history.
	HistoryLimit int `json:"history_limit,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		RootName:     DefaultRootName,
		LogLevel:     "warn",
		CheckoutMode: CheckoutExisting,
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from the global directory and the
// repository found by walking upward from startDir. Repo config takes
// precedence for scalar values; arrays are merged (deduplicated).
// Either or both configs may be missing; an empty globalDir skips the global file.
//
// root_name names the directory being searched for, so only the global
// file can set it.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	var globalPath string
	if globalDir != "" {
		globalPath = filepath.Join(globalDir, "config.json")
	}
	global, err := loadFileRaw(globalPath)
	if err != nil {
		return nil, err
	}
	base := Merge(DefaultConfig(), global)

	repo, err := loadFileRaw(FindRepoConfig(startDir, base.RootName))
	if err != nil {
		return nil, err
	}

	cfg := Merge(base, repo)
	cfg.RootName = base.RootName
	return cfg, nil
}

// FindRepoConfig walks upward from startDir to find the nearest
// <rootName>/config.json. An empty rootName means DefaultRootName.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir, rootName string) string {
	if rootName == "" {
		rootName = DefaultRootName
	}
	dir := startDir
	for {
		configPath := filepath.Join(dir, rootName, "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	switch c.CheckoutMode {
	case CheckoutExisting, CheckoutAll:
	default:
		return errors.New("checkout_mode must be one of: existing, all")
	}
	if c.HistoryLimit < 0 {
		return errors.New("history_limit must be non-negative")
	}
	if strings.ContainsAny(c.RootName, `/\`) || c.RootName == "." || c.RootName == ".." {
		return errors.New("root_name must be a plain directory name")
	}
	return nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.RootName = firstNonEmpty(overlay.RootName, base.RootName)
	result.LogLevel = firstNonEmpty(overlay.LogLevel, base.LogLevel)
	result.CheckoutMode = firstNonEmpty(overlay.CheckoutMode, base.CheckoutMode)

	result.HistoryLimit = overlay.HistoryLimit
	if result.HistoryLimit == 0 {
		result.HistoryLimit = base.HistoryLimit
	}

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

func firstNonEmpty(a, b string) string {
	if s := strings.TrimSpace(a); s != "" {
		return s
	}
	return strings.TrimSpace(b)
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, list := range [][]string{a, b} {
		for _, s := range list {
			s = strings.TrimSpace(s)
			if s != "" && !seen[s] {
				seen[s] = true
				result = append(result, s)
			}
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
