package config

import "errors"

// Error variables for configuration loading.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrConfigFileExists   = errors.New("config file already exists")
	ErrStorePathEmpty     = errors.New("store path cannot be empty")
	ErrThresholdRange     = errors.New("threshold must be between 0 and 100")
	ErrEnvInvalid         = errors.New("invalid environment variable")
)
