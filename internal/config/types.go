// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// LogLevelDebug logs everything, including every executed line.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo logs lifecycle events.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs recoverable problems such as failed reloads.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs failures only.
	LogLevelError LogLevel = "error"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidPort is the sentinel error wrapped by InvalidPortError.
	ErrInvalidPort = errors.New("invalid listen port")
	// ErrInvalidDuration is returned for negative durations.
	ErrInvalidDuration = errors.New("invalid duration")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// LogLevel is the minimum level of diagnostic log output.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// ListenPort is a TCP port for the SSH server. 0 selects a free port.
	ListenPort int

	// InvalidPortError is returned when a ListenPort is outside 0-65535.
	InvalidPortError struct {
		Value ListenPort
	}

	// InvalidDurationError is returned when a duration setting is negative.
	InvalidDurationError struct {
		Field string
		Value time.Duration
	}

	// InvalidConfigError collects field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// VFS selects the document backing the virtual filesystem.
		VFS VFSConfig `json:"vfs" mapstructure:"vfs"`
		// Shell configures the dispatcher.
		Shell ShellConfig `json:"shell" mapstructure:"shell"`
		// UI configures CLI output.
		UI UIConfig `json:"ui" mapstructure:"ui"`
		// SSH configures the SSH front-end.
		SSH SSHConfig `json:"ssh" mapstructure:"ssh"`
		// Watch configures document reloading for the SSH front-end.
		Watch WatchConfig `json:"watch" mapstructure:"watch"`
		// Log configures diagnostic logging.
		Log LogConfig `json:"log" mapstructure:"log"`
	}

	// VFSConfig selects the VFS document.
	VFSConfig struct {
		Path string `json:"path" mapstructure:"path"`
	}

	// ShellConfig configures the dispatcher.
	ShellConfig struct {
		// Hostname overrides the host name in the prompt and in uname -n.
		Hostname string `json:"hostname" mapstructure:"hostname"`
		// EnableExpansion expands $NAME inside command arguments.
		EnableExpansion bool `json:"enable_expansion" mapstructure:"enable_expansion"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
	}

	// SSHConfig configures the SSH front-end.
	SSHConfig struct {
		Host string     `json:"host" mapstructure:"host"`
		Port ListenPort `json:"port" mapstructure:"port"`
		// HostKeyPath is where the server's host key is stored. Empty means
		// ssh_host_ed25519 in the config directory. A missing key is generated.
		HostKeyPath string `json:"host_key_path" mapstructure:"host_key_path"`
		// Password enables password authentication when non-empty. Without
		// it every client is accepted.
		Password        string        `json:"password" mapstructure:"password"`
		ShutdownTimeout time.Duration `json:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	}

	// WatchConfig configures document reloading.
	WatchConfig struct {
		Debounce time.Duration `json:"debounce" mapstructure:"debounce"`
		// Ignore lists glob patterns of paths whose changes never trigger a
		// reload.
		Ignore []string `json:"ignore" mapstructure:"ignore"`
	}

	// LogConfig configures diagnostic logging.
	LogConfig struct {
		Level LogLevel `json:"level" mapstructure:"level"`
	}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Shell: ShellConfig{
			EnableExpansion: true,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
		SSH: SSHConfig{
			Host:            "127.0.0.1",
			Port:            2222,
			ShutdownTimeout: 5 * time.Second,
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
			Ignore:   []string{"**/*.swp", "**/*~", "**/.#*"},
		},
		Log: LogConfig{
			Level: LogLevelWarn,
		},
	}
}

// String returns the string representation of the ColorScheme.
func (c ColorScheme) String() string { return string(c) }

// IsValid returns whether the ColorScheme is one of the defined schemes.
func (c ColorScheme) IsValid() (bool, []error) {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: c}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is one of the defined levels.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

// Error implements the error interface for InvalidLogLevelError.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// String returns the decimal representation of the ListenPort.
func (p ListenPort) String() string { return strconv.Itoa(int(p)) }

// IsValid returns whether the ListenPort is 0 or in 1-65535.
func (p ListenPort) IsValid() (bool, []error) {
	if p < 0 || p > 65535 {
		return false, []error{&InvalidPortError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidPortError.
func (e *InvalidPortError) Error() string {
	return fmt.Sprintf("invalid listen port %d: must be 0 (auto-select) or 1-65535", e.Value)
}

// Unwrap returns ErrInvalidPort for errors.Is() compatibility.
func (e *InvalidPortError) Unwrap() error { return ErrInvalidPort }

// Error implements the error interface for InvalidDurationError.
func (e *InvalidDurationError) Error() string {
	return fmt.Sprintf("invalid %s %s: must not be negative", e.Field, e.Value)
}

// Unwrap returns ErrInvalidDuration for errors.Is() compatibility.
func (e *InvalidDurationError) Unwrap() error { return ErrInvalidDuration }

// IsValid returns whether every field of the Config is valid.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Log.Level.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.SSH.Port.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if c.SSH.ShutdownTimeout < 0 {
		errs = append(errs, &InvalidDurationError{Field: "ssh.shutdown_timeout", Value: c.SSH.ShutdownTimeout})
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, &InvalidDurationError{Field: "watch.debounce", Value: c.Watch.Debounce})
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig and the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
