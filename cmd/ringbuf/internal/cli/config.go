package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"

	"github.com/calvinalkan/ringbuf/pkg/fs"
)

// Config holds defaults for commands that create or attach to a region.
type Config struct {
	Capacity  int    `json:"capacity,omitempty"`
	Alignment uint32 `json:"alignment,omitempty"`
	RegionDir string `json:"region_dir,omitempty"` //nolint:tagliatelle // snake_case for config file
}

// DefaultConfig returns the built-in defaults used when no config file
// overrides them.
func DefaultConfig() Config {
	return Config{
		Capacity:  1 << 20,
		Alignment: 8,
		RegionDir: ".",
	}
}

// ConfigFileName is the project-local config file name.
const ConfigFileName = ".ringbufrc.json"

var errConfigFileNotFound = errors.New("config file not found")

// getGlobalConfigPath returns $XDG_CONFIG_HOME/ringbuf/config.json, or
// ~/.config/ringbuf/config.json if that variable is unset. Returns empty
// string if the home directory cannot be determined.
func getGlobalConfigPath(env map[string]string) string {
	if xdg := env["XDG_CONFIG_HOME"]; xdg != "" {
		return filepath.Join(xdg, "ringbuf", "config.json")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "ringbuf", "config.json")
}

// LoadConfig loads configuration with the following precedence (highest
// wins): built-in defaults, global user config, project config file
// (.ringbufrc.json in workDir), explicit config file at configPath.
//
// File access goes through the [fs.FS] interface ([fs.NewReal] here);
// loadConfigWithFS accepts any other implementation, so a test can
// substitute a filesystem without touching the loader.
func LoadConfig(workDir, configPath string, env map[string]string) (Config, error) {
	return loadConfigWithFS(fs.NewReal(), workDir, configPath, env)
}

func loadConfigWithFS(fsys fs.FS, workDir, configPath string, env map[string]string) (Config, error) {
	cfg := DefaultConfig()

	globalCfg, _, err := loadConfigFile(fsys, getGlobalConfigPath(env), false)
	if err != nil {
		return Config{}, err
	}
	cfg = mergeConfig(cfg, globalCfg)

	var (
		projectPath string
		mustExist   bool
	)

	if configPath != "" {
		projectPath = configPath
		if !filepath.IsAbs(projectPath) {
			projectPath = filepath.Join(workDir, projectPath)
		}
		mustExist = true
	} else {
		projectPath = filepath.Join(workDir, ConfigFileName)
	}

	projectCfg, loaded, err := loadConfigFile(fsys, projectPath, mustExist)
	if err != nil {
		return Config{}, err
	}
	if loaded {
		cfg = mergeConfig(cfg, projectCfg)
	}

	if cfg.Capacity <= 0 {
		return Config{}, fmt.Errorf("config: capacity must be positive, got %d", cfg.Capacity)
	}
	if cfg.Alignment == 0 || cfg.Alignment&(cfg.Alignment-1) != 0 {
		return Config{}, fmt.Errorf("config: alignment %d must be a power of two", cfg.Alignment)
	}

	return cfg, nil
}

func loadConfigFile(fsys fs.FS, path string, mustExist bool) (Config, bool, error) {
	if path == "" {
		return Config{}, false, nil
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if mustExist {
				return Config{}, false, fmt.Errorf("%w: %s", errConfigFileNotFound, path)
			}
			return Config{}, false, nil
		}
		return Config{}, false, fmt.Errorf("reading %s: %w", path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("%s: invalid JWCC: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, false, fmt.Errorf("%s: invalid JSON: %w", path, err)
	}

	// mergeConfig treats a zero field as unset, so an explicit zero capacity
	// has to be rejected here, while it is still visible.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(standardized, &fields); err == nil {
		if _, ok := fields["capacity"]; ok && cfg.Capacity <= 0 {
			return Config{}, false, fmt.Errorf("config: capacity must be positive, got %d", cfg.Capacity)
		}
	}

	return cfg, true, nil
}

func mergeConfig(base, overlay Config) Config {
	if overlay.Capacity != 0 {
		base.Capacity = overlay.Capacity
	}
	if overlay.Alignment != 0 {
		base.Alignment = overlay.Alignment
	}
	if overlay.RegionDir != "" {
		base.RegionDir = overlay.RegionDir
	}
	return base
}

// FormatConfig returns cfg as indented JSON, for "ringbuf config" output.
func FormatConfig(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("formatting config: %w", err)
	}
	return strings.TrimSpace(string(data)) + "\n", nil
}
