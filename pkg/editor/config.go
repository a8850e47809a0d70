package editor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// Config names the documents backing an editor session. It is a value: callers
// replace a held Config, they never mutate one in place.
type Config struct {
	// SchemaPath is required and points at the JSON schema driving the form.
	SchemaPath string `json:"schemaPath" yaml:"schemaPath"`
	// ChoicesPath optionally points at the custom dropdown/conditional rules
	// document.
	ChoicesPath string `json:"choicesPath,omitempty" yaml:"choicesPath,omitempty"`
	// DataPath optionally points at the initial data document.
	DataPath string `json:"dataPath,omitempty" yaml:"dataPath,omitempty"`
}

// ValidationError reports user supplied configuration that references a
// missing or empty path. It is never fatal; the user is expected to retry.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field == "" {
		return "editor: " + e.Message
	}
	return fmt.Sprintf("editor: %s: %s", e.Field, e.Message)
}

// IsValidationError reports whether err carries a *ValidationError.
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// Normalize trims surrounding whitespace from every path.
func (c Config) Normalize() Config {
	return Config{
		SchemaPath:  strings.TrimSpace(c.SchemaPath),
		ChoicesPath: strings.TrimSpace(c.ChoicesPath),
		DataPath:    strings.TrimSpace(c.DataPath),
	}
}

// Validate ensures the mandatory schema path is present.
func (c Config) Validate() error {
	if strings.TrimSpace(c.SchemaPath) == "" {
		return &ValidationError{Field: "schemaPath", Message: "Please select a schema JSON file"}
	}
	return nil
}

// Equal compares two configs by value after normalisation.
func (c Config) Equal(other Config) bool {
	return c.Normalize() == other.Normalize()
}

// IsZero reports whether no path has been configured.
func (c Config) IsZero() bool {
	return c.Normalize() == Config{}
}

// Paths returns the configured paths in schema, choices, data order, skipping
// empty entries.
func (c Config) Paths() []string {
	n := c.Normalize()
	out := make([]string, 0, 3)
	for _, p := range []string{n.SchemaPath, n.ChoicesPath, n.DataPath} {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// StatFunc matches os.Stat so tests can substitute a fake filesystem.
type StatFunc func(name string) (fs.FileInfo, error)

// CheckFiles validates the config and then verifies every referenced local
// path exists. Remote (http/https) references are not checked.
func (c Config) CheckFiles(stat StatFunc) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if stat == nil {
		stat = os.Stat
	}
	for _, p := range c.Paths() {
		if isRemote(p) {
			continue
		}
		if _, err := stat(p); err != nil {
			return &ValidationError{Message: "One or more files do not exist. Please check the file paths."}
		}
	}
	return nil
}

func isRemote(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
