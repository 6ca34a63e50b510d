package config

import "fmt"

// Error codes for configuration loading.
const (
	ErrCodeNotFound    = "CONFIG_NOT_FOUND"
	ErrCodeNoFiles     = "CONFIG_NO_FILES"
	ErrCodeLoadFailed  = "CONFIG_LOAD_FAILED"
	ErrCodeBuildFailed = "CONFIG_BUILD_FAILED"
	ErrCodeSchema      = "CONFIG_SCHEMA_VIOLATION"
	ErrCodeSemantic    = "CONFIG_SEMANTIC"
)

// LoadError represents an error that occurred during config loading.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newLoadError(code, format string, args ...any) *LoadError {
	return &LoadError{Code: code, Message: fmt.Sprintf(format, args...)}
}
