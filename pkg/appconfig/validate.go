package appconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gobwas/glob"
	"github.com/rs/zerolog"

	"github.com/wonderfulspam/lintcompat/pkg/eslint"
	"github.com/wonderfulspam/lintcompat/pkg/logging"
	"github.com/wonderfulspam/lintcompat/pkg/renderer"
)

// Validate checks cfg field by field.
func Validate(cfg *Config) error {
	validate := validator.New()

	_ = validate.RegisterValidation("reportformat", func(fl validator.FieldLevel) bool {
		_, err := renderer.ParseFormat(fl.Field().String())
		return err == nil
	})

	_ = validate.RegisterValidation("engine", func(fl validator.FieldLevel) bool {
		switch eslint.BackendType(strings.ToLower(fl.Field().String())) {
		case eslint.BackendExec, eslint.BackendStatic:
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		level := strings.ToLower(fl.Field().String())
		if level == "" {
			return true
		}
		_, err := zerolog.ParseLevel(level)
		return err == nil
	})

	_ = validate.RegisterValidation("logformat", func(fl validator.FieldLevel) bool {
		switch logging.Format(strings.ToLower(fl.Field().String())) {
		case "", logging.FormatConsole, logging.FormatJSON:
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("ignoreglob", func(fl validator.FieldLevel) bool {
		_, err := glob.Compile(fl.Field().String(), '/')
		return err == nil
	})

	if err := validate.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var msgs []string
			for _, fe := range validationErrors {
				msgs = append(msgs, fieldMessage(fe))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s needs at least %s entries", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value())
	case "reportformat":
		return fmt.Sprintf("%s %q is not a supported report format (text, table, json, yaml)", field, fe.Value())
	case "engine":
		return fmt.Sprintf("%s %q is not a supported engine (exec, static)", field, fe.Value())
	case "loglevel":
		return fmt.Sprintf("%s %q is not a log level", field, fe.Value())
	case "logformat":
		return fmt.Sprintf("%s %q is not a log format (console, json)", field, fe.Value())
	case "ignoreglob":
		return fmt.Sprintf("%s %q is not a valid glob pattern", field, fe.Value())
	default:
		return fmt.Sprintf("%s failed %q validation", field, fe.Tag())
	}
}
