// Package errors provides standardized error handling for tnap.
// It defines the error kinds used across the slideshow, typed errors for the
// acquisition, rendering and configuration paths, and helpers for creating,
// wrapping and classifying them.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package errors that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// Acquisition error kinds
	GenerationFailed
	DownloadFailed
	SessionLocked
	// Rendering error kinds
	DecodeFailed
	ConversionFailed
	// Structural error kinds
	NoItems
	ThemeNotFound
	NotATerminal
	// Config error kinds
	InvalidConfig
	ConfigNotFound
	PromptNotFound
	InvalidArguments
)

var kindNames = map[ErrorKind]string{
	Unknown:          "unknown",
	GenerationFailed: "generation failed",
	DownloadFailed:   "download failed",
	SessionLocked:    "session locked",
	DecodeFailed:     "decode failed",
	ConversionFailed: "conversion failed",
	NoItems:          "no items",
	ThemeNotFound:    "theme not found",
	NotATerminal:     "not a terminal",
	InvalidConfig:    "invalid config",
	ConfigNotFound:   "config not found",
	PromptNotFound:   "prompt not found",
	InvalidArguments: "invalid arguments",
}

// String returns a human readable name for the kind
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Common error constants for frequently occurring errors
var (
	ErrNoItems       = NewWithKind(NoItems, "nothing to display", nil)
	ErrInvalidConfig = NewConfigError("invalid configuration", "", InvalidConfig, nil)
)

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// AcquisitionError is returned when producing one slideshow image fails.
// Index is the zero-based iteration of the acquirer loop and Stage is either
// "generate" or "download".
type AcquisitionError struct {
	ApplicationError
	index int
	stage string
}

// NewAcquisitionError creates a new acquisition error
func NewAcquisitionError(index int, stage string, kind ErrorKind, err error) *AcquisitionError {
	return &AcquisitionError{
		ApplicationError: ApplicationError{
			msg:  "image acquisition failed",
			err:  err,
			kind: kind,
		},
		index: index,
		stage: stage,
	}
}

// Error returns the acquisition error message
func (e *AcquisitionError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: image %d: %s: %v", e.msg, e.index, e.stage, e.err)
	}
	return fmt.Sprintf("%s: image %d: %s", e.msg, e.index, e.stage)
}

// Index returns the iteration that failed
func (e *AcquisitionError) Index() int {
	return e.index
}

// Stage returns the collaborator call that failed
func (e *AcquisitionError) Stage() string {
	return e.stage
}

// RenderError represents a failure to decode or convert the current item
type RenderError struct {
	ApplicationError
	path string
}

// NewRenderError creates a new render error
func NewRenderError(msg string, path string, kind ErrorKind, err error) *RenderError {
	return &RenderError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the render error message
func (e *RenderError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the item path associated with the error
func (e *RenderError) Path() string {
	return e.path
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// NewWithKind creates an error of the given kind, optionally wrapping err
func NewWithKind(kind ErrorKind, msg string, err error) *ApplicationError {
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: kind,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

type kinded interface {
	Kind() ErrorKind
}

// KindOf returns the kind of the first classified error in err's chain.
// Wrappers created with Wrap carry Unknown and are skipped.
func KindOf(err error) ErrorKind {
	for err != nil {
		if k, ok := err.(kinded); ok && k.Kind() != Unknown {
			return k.Kind()
		}
		err = errors.Unwrap(err)
	}
	return Unknown
}

// IsAcquisitionError checks if the error came from the acquirer loop
func IsAcquisitionError(err error) bool {
	var acqErr *AcquisitionError
	return errors.As(err, &acqErr)
}

// IsRenderError checks if the error is a recoverable render failure
func IsRenderError(err error) bool {
	var renderErr *RenderError
	return errors.As(err, &renderErr)
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == InvalidConfig
	}
	return false
}

// IsStructural reports whether err prevents the slideshow from starting at all
func IsStructural(err error) bool {
	switch KindOf(err) {
	case NoItems, ThemeNotFound, NotATerminal, SessionLocked:
		return true
	}
	return false
}
