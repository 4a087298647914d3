package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/conn-castle/plugin-stage/internal/messages"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	validate.RegisterTagNameFunc(tomlFieldName)
}

// Validate ensures the config is complete and consistent.
func (c *Config) Validate(path string) error {
	if err := validate.Struct(c); err != nil {
		return describeValidation(path, err)
	}
	if c.Lock.Timeout.Duration < 0 {
		return fmt.Errorf(messages.ConfigNegativeDurationFmt, path, "lock.timeout")
	}
	if c.Inbox.Settle.Duration < 0 {
		return fmt.Errorf(messages.ConfigNegativeDurationFmt, path, "inbox.settle")
	}
	return nil
}

// describeValidation turns validator failures into "<source>: <key> ..." lines.
func describeValidation(source string, err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf(messages.ConfigInvalidConfigFmt, source, err)
	}
	lines := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		key := tomlKey(fe.Namespace())
		switch fe.Tag() {
		case "required":
			lines = append(lines, fmt.Errorf(messages.ConfigFieldRequiredFmt, source, key))
		case "oneof":
			lines = append(lines, fmt.Errorf(messages.ConfigFieldOneOfFmt, source, key, strings.ReplaceAll(fe.Param(), " ", ", ")))
		default:
			lines = append(lines, fmt.Errorf(messages.ConfigFieldInvalidFmt, source, key, fe.Tag(), fe.Param()))
		}
	}
	return errors.Join(lines...)
}

// tomlKey drops the root struct name from a validator namespace ("Config.log.level").
func tomlKey(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}
