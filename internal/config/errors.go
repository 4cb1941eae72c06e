package config

import (
	"errors"
)

// Sentinel kinds for configuration failures, matchable with errors.Is.
// ErrInvalidConfig marks values that loaded but fail validation;
// ErrLoadConfig marks failures reading a source.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
