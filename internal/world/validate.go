package world

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	scenarioValidator     *validator.Validate
	scenarioValidatorOnce sync.Once
)

func getValidator() *validator.Validate {
	scenarioValidatorOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("instancetype", validateInstanceType)
		scenarioValidator = v
	})
	return scenarioValidator
}

func validateInstanceType(fl validator.FieldLevel) bool {
	_, ok := ParseInstanceType(fl.Field().String())
	return ok
}

// ValidateScenario checks a scenario's field constraints before any of it
// is applied.
func ValidateScenario(file ScenarioFile) error {
	err := getValidator().Struct(file)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("invalid scenario: %w", err)
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		field := strings.ToLower(strings.TrimPrefix(e.Namespace(), "ScenarioFile."))
		switch e.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "instancetype":
			msgs = append(msgs, fmt.Sprintf("%s: unknown instance type %q", field, e.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", field, e.Tag(), e.Param()))
		}
	}
	return fmt.Errorf("invalid scenario: %s", strings.Join(msgs, "; "))
}
