package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source describes where a secret (API key, database DSN) can be found.
type Source struct {
	// Name is used in error messages to give more context about the secret.
	Name string
	// Env is an environment variable consulted first.
	Env string
	// File points to a file containing the secret value. It takes precedence over Value.
	File string
	// Value is an inline secret value provided via configuration or flags.
	Value string
}

// Load resolves the secret in the order Env, File, Value. The returned secret is
// always trimmed. An error is returned when none of them contain a usable secret.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	if env := strings.TrimSpace(src.Env); env != "" {
		if value := strings.TrimSpace(os.Getenv(env)); value != "" {
			return value, nil
		}
	}

	file := strings.TrimSpace(src.File)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		return secret, nil
	}

	secret := strings.TrimSpace(src.Value)
	if secret == "" {
		return "", fmt.Errorf("%s is not configured", name)
	}

	return secret, nil
}
