package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source describes how to load a secret or auxiliary text value.
type Source struct {
	// Name is used in error messages to give more context about the value.
	Name string
	// Value is an inline value provided via configuration.
	Value string
	// File points to a file containing the value. When set it takes
	// precedence over Value.
	File string
	// Env names an environment variable consulted when neither File nor
	// Value yield anything.
	Env string
}

// Load returns the resolved value from the provided source, trimmed. File
// takes precedence over Value, Value over Env. An error is returned when no
// part of the source contains a usable value.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	file := strings.TrimSpace(src.File)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		src.Value = string(data)
	}

	value := strings.TrimSpace(src.Value)
	if value == "" && src.Env != "" {
		value = strings.TrimSpace(os.Getenv(src.Env))
	}

	if value == "" {
		if file != "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		return "", fmt.Errorf("%s is not configured", name)
	}

	return value, nil
}
