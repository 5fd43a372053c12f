package config

import (
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/thoreinstein/ueb/internal/errors"
	"github.com/thoreinstein/ueb/internal/rules"
)

// Validation errors for configuration fields.
var (
	// ErrVersionTooLow indicates the version field is below the minimum.
	ErrVersionTooLow = errors.New("version must be >= 1")

	// ErrNegativeTolerance indicates mtime_tolerance is below zero.
	ErrNegativeTolerance = errors.New("mtime_tolerance must not be negative")

	// ErrInvalidIgnoreFile indicates ignore_file is not a plain file name.
	ErrInvalidIgnoreFile = errors.New("ignore_file must be a file name without separators")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version < 1 {
		errs = append(errs, ErrVersionTooLow)
	}

	if cfg.MtimeTolerance < 0 {
		errs = append(errs, ErrNegativeTolerance)
	}

	if cfg.IgnoreFile != "" {
		if strings.ContainsAny(cfg.IgnoreFile, `/\`) || strings.ContainsRune(cfg.IgnoreFile, '\x00') ||
			cfg.IgnoreFile == "." || cfg.IgnoreFile == ".." {
			errs = append(errs, &FieldError{Field: "ignore_file", Value: cfg.IgnoreFile, Err: ErrInvalidIgnoreFile})
		}
	}

	for i, p := range cfg.Excludes {
		if err := rules.ValidatePattern(p); err != nil {
			errs = append(errs, &FieldError{Field: "excludes", Index: i + 1, Value: p, Err: err})
		}
	}

	return errs
}

// FieldError represents an error for a specific config field. Index is the
// 1-based list position for list fields, zero otherwise.
type FieldError struct {
	Field string
	Index int
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	field := e.Field
	if e.Index > 0 {
		field += "[" + strconv.Itoa(e.Index) + "]"
	}
	return field + ": " + e.Err.Error() + ": " + e.Value
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func isNotExist(err error) bool {
	var pe *fs.PathError
	return errors.As(err, &pe) && os.IsNotExist(pe.Err)
}
