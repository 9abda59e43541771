// Package config resolves attn's configuration from defaults, JSONC config
// files, a .env file, environment variables and CLI flags.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/tailscale/hujson"

	"github.com/calvinalkan/attendance/internal/logging"
)

// Defaults.
const (
	// DefaultStorePath is resolved against the working directory.
	DefaultStorePath = "attendance_db.txt"

	// DefaultThreshold is the defaulter cutoff in percent.
	DefaultThreshold = 75.0

	// DefaultLogLevel keeps stderr quiet unless something is off.
	DefaultLogLevel = "warn"
)

// ConfigFileName is the project config file name.
const ConfigFileName = ".attn.json"

// DotEnvFileName is the optional env file read from the working directory.
const DotEnvFileName = ".env"

// Environment variable names.
const (
	EnvStore     = "ATTN_STORE"
	EnvThreshold = "ATTN_THRESHOLD"
	EnvLogLevel  = "ATTN_LOG_LEVEL"
)

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	StorePath string  `json:"store_path"`
	Threshold float64 `json:"threshold"`
	LogLevel  string  `json:"log_level"`

	// Resolved (computed, not serialized)
	EffectiveCwd string  `json:"-"` // Absolute working directory (from -C flag or os.Getwd)
	StorePathAbs string  `json:"-"` // Absolute path to the store file
	Sources      Sources `json:"-"`
}

// Sources tracks which files and variables contributed to the config.
type Sources struct {
	Global  string   // Path to global config if loaded, empty otherwise
	Project string   // Path to project config if loaded, empty otherwise
	DotEnv  string   // Path to .env if loaded, empty otherwise
	Env     []string // Names of ATTN_* variables applied
}

// fileConfig mirrors Config with pointers so an explicit zero threshold or
// empty store path can be told apart from an absent key.
type fileConfig struct {
	StorePath *string  `json:"store_path"`
	Threshold *float64 `json:"threshold"`
	LogLevel  *string  `json:"log_level"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		StorePath: DefaultStorePath,
		Threshold: DefaultThreshold,
		LogLevel:  DefaultLogLevel,
	}
}

// LoadInput holds the inputs for Load.
type LoadInput struct {
	WorkDirOverride   string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath        string            // -c/--config flag value
	StoreOverride     *string           // --store flag value; nil means not given
	ThresholdOverride *float64          // --threshold flag value; nil means not given
	Env               map[string]string // process environment
}

// Load resolves configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config (~/.config/attn/config.json or $XDG_CONFIG_HOME/attn/config.json)
// 3. Project config file (.attn.json, if exists) or explicit config file via ConfigPath
// 4. ATTN_* variables, from the process environment or .env (process wins)
// 5. CLI overrides.
//
// The store path in the returned Config is resolved to an absolute path.
func Load(input LoadInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	} else if !filepath.IsAbs(workDir) {
		abs, err := filepath.Abs(workDir)
		if err != nil {
			return Config{}, fmt.Errorf("cannot resolve working directory: %w", err)
		}

		workDir = abs
	}

	cfg := Default()

	globalCfg, globalPath, err := loadGlobalConfig(input.Env)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Global = globalPath
	cfg = merge(cfg, globalCfg)

	projectCfg, projectPath, err := loadProjectConfig(workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Project = projectPath
	cfg = merge(cfg, projectCfg)

	env, dotEnvPath, err := loadEnv(workDir, input.Env)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.DotEnv = dotEnvPath

	cfg, err = applyEnv(cfg, env)
	if err != nil {
		return Config{}, err
	}

	if input.StoreOverride != nil {
		cfg.StorePath = *input.StoreOverride
		if cfg.StorePath == "" {
			return Config{}, ErrStorePathEmpty
		}
	}

	if input.ThresholdOverride != nil {
		cfg.Threshold = *input.ThresholdOverride
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}

	cfg.EffectiveCwd = workDir
	cfg.StorePathAbs = resolve(workDir, cfg.StorePath)

	return cfg, nil
}

// Format renders the serialized fields as indented JSON.
func Format(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to format config: %w", err)
	}

	return string(data), nil
}

// globalConfigPath returns the path to the global config file.
// Uses $XDG_CONFIG_HOME/attn/config.json if set, otherwise ~/.config/attn/config.json.
// Returns empty string if home directory cannot be determined.
func globalConfigPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "attn", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "attn", "config.json")
	}

	return ""
}

func loadGlobalConfig(env map[string]string) (fileConfig, string, error) {
	path := globalConfigPath(env)
	if path == "" {
		return fileConfig{}, "", nil
	}

	cfg, loaded, err := loadConfigFile(path, false)
	if err != nil || !loaded {
		return fileConfig{}, "", err
	}

	return cfg, path, nil
}

// loadProjectConfig loads .attn.json from workDir, or configPath when given.
// An explicit config file must exist.
func loadProjectConfig(workDir, configPath string) (fileConfig, string, error) {
	var cfgFile string

	mustExist := configPath != ""

	if mustExist {
		cfgFile = resolve(workDir, configPath)

		if _, statErr := os.Stat(cfgFile); statErr != nil {
			return fileConfig{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
		}
	} else {
		cfgFile = filepath.Join(workDir, ConfigFileName)
	}

	cfg, loaded, err := loadConfigFile(cfgFile, mustExist)
	if err != nil || !loaded {
		return fileConfig{}, "", err
	}

	return cfg, cfgFile, nil
}

// loadConfigFile loads a config file. If mustExist is false, missing files
// return a zero config and loaded=false.
func loadConfigFile(path string, mustExist bool) (fileConfig, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return fileConfig{}, false, nil
		}

		return fileConfig{}, false, fmt.Errorf("%w: %s: %w", ErrConfigFileRead, path, err)
	}

	cfg, err := parse(data)
	if err != nil {
		return fileConfig{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	if cfg.StorePath != nil && *cfg.StorePath == "" {
		return fileConfig{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, ErrStorePathEmpty)
	}

	return cfg, true, nil
}

// parse decodes a JSONC config document (comments and trailing commas allowed).
func parse(data []byte) (fileConfig, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fileConfig{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg fileConfig

	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return fileConfig{}, fmt.Errorf("invalid JSON: %w", err)
	}

	return cfg, nil
}

// loadEnv overlays the process environment on top of an optional .env file.
// godotenv.Read is used so the process environment itself is never modified.
func loadEnv(workDir string, processEnv map[string]string) (map[string]string, string, error) {
	merged := make(map[string]string, len(processEnv))

	path := filepath.Join(workDir, DotEnvFileName)
	loadedPath := ""

	dotEnv, err := godotenv.Read(path)

	switch {
	case err == nil:
		loadedPath = path

		for k, v := range dotEnv {
			merged[k] = v
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, "", fmt.Errorf("%w: %s: %w", ErrConfigFileRead, path, err)
	}

	for k, v := range processEnv {
		merged[k] = v
	}

	return merged, loadedPath, nil
}

func applyEnv(cfg Config, env map[string]string) (Config, error) {
	if v, ok := env[EnvStore]; ok {
		if v == "" {
			return Config{}, fmt.Errorf("%w: %s: %w", ErrEnvInvalid, EnvStore, ErrStorePathEmpty)
		}

		cfg.StorePath = v
		cfg.Sources.Env = append(cfg.Sources.Env, EnvStore)
	}

	if v, ok := env[EnvThreshold]; ok {
		threshold, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s=%q is not a number", ErrEnvInvalid, EnvThreshold, v)
		}

		cfg.Threshold = threshold
		cfg.Sources.Env = append(cfg.Sources.Env, EnvThreshold)
	}

	if v, ok := env[EnvLogLevel]; ok {
		cfg.LogLevel = v
		cfg.Sources.Env = append(cfg.Sources.Env, EnvLogLevel)
	}

	return cfg, nil
}

func merge(base Config, overlay fileConfig) Config {
	if overlay.StorePath != nil {
		base.StorePath = *overlay.StorePath
	}

	if overlay.Threshold != nil {
		base.Threshold = *overlay.Threshold
	}

	if overlay.LogLevel != nil {
		base.LogLevel = *overlay.LogLevel
	}

	return base
}

func validate(cfg Config) error {
	if cfg.StorePath == "" {
		return ErrStorePathEmpty
	}

	if math.IsNaN(cfg.Threshold) || cfg.Threshold < 0 || cfg.Threshold > 100 {
		return fmt.Errorf("%w: %v", ErrThresholdRange, cfg.Threshold)
	}

	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return err
	}

	return nil
}

func resolve(workDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(workDir, path)
}
