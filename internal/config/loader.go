// loader.go implements the configuration loading lifecycle:
//
//  1. Enforce UTC timezone.
//  2. Load .env via godotenv (non-fatal if absent).
//  3. Resolve _SSM_PARAM pointer variables when APP_ENV != "local".
//  4. Populate the Config struct via envconfig tags.
//  5. Validate with go-playground/validator.
package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Error is a diagnostic error type returned by Load.
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// ssmParamSuffix identifies SSM pointer variables. DATABASE_URL_SSM_PARAM
// holds the SSM path for the DATABASE_URL secret.
const ssmParamSuffix = "_SSM_PARAM"

const localEnv = "local"

// Load loads and validates the claimrelay configuration. The provider is
// used for SSM secret resolution; it may be nil for local development.
func Load(provider SecretProvider) (*Config, error) {
	time.Local = time.UTC

	// Does not override existing environment variables.
	_ = godotenv.Load()

	if appEnv := os.Getenv("APP_ENV"); appEnv != localEnv {
		if err := resolveSSMParams(provider); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, &Error{
			Type:    ErrParsing,
			Message: "failed to process environment configuration",
			Err:     err,
		}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, &Error{
			Type:    ErrValidation,
			Message: "configuration validation failed",
			Err:     err,
		}
	}

	return &cfg, nil
}

// resolveSSMParams scans the environment for _SSM_PARAM pointer variables,
// fetches the referenced secrets in one batch, and injects the values back
// into the environment so envconfig can see them. A target variable already
// set wins over its SSM pointer (priority: Env > Dotenv > SSM).
func resolveSSMParams(provider SecretProvider) error {
	pathToTarget := make(map[string]string)
	var paths []string

	for _, entry := range os.Environ() {
		eq := strings.IndexByte(entry, '=')
		if eq < 0 {
			continue
		}
		key := entry[:eq]
		if !strings.HasSuffix(key, ssmParamSuffix) {
			continue
		}

		target := strings.TrimSuffix(key, ssmParamSuffix)
		if _, exists := os.LookupEnv(target); exists {
			continue
		}

		path := entry[eq+1:]
		if path == "" {
			continue
		}
		pathToTarget[path] = target
		paths = append(paths, path)
	}

	if len(paths) == 0 {
		return nil
	}

	if provider == nil {
		targets := make([]string, 0, len(paths))
		for _, p := range paths {
			targets = append(targets, pathToTarget[p])
		}
		return &Error{
			Type:    ErrSSMResolution,
			Message: fmt.Sprintf("secret provider required to resolve: %s", strings.Join(targets, ", ")),
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resolved, err := provider.GetParametersBatch(ctx, paths)
	if err != nil {
		return &Error{
			Type:    ErrSSMResolution,
			Message: fmt.Sprintf("failed to resolve %d SSM parameters", len(paths)),
			Err:     err,
		}
	}

	var missing []string
	for _, path := range paths {
		value, ok := resolved[path]
		if !ok {
			missing = append(missing, pathToTarget[path])
			continue
		}
		if err := os.Setenv(pathToTarget[path], value); err != nil {
			return &Error{
				Type:    ErrSSMResolution,
				Message: fmt.Sprintf("failed to set resolved value for %s", pathToTarget[path]),
				Err:     err,
			}
		}
	}
	if len(missing) > 0 {
		return &Error{
			Type:    ErrSSMResolution,
			Message: fmt.Sprintf("SSM parameters not found for: %s", strings.Join(missing, ", ")),
		}
	}

	return nil
}
