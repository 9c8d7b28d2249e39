package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"courtfinder/pkg/logger"
	"courtfinder/pkg/model"
	"courtfinder/pkg/openinghours"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type CourtValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewCourtValidator(log *logger.Logger) *CourtValidator {
	v := validator.New()

	if err := v.RegisterValidation("opening_hours", validateOpeningHours); err != nil {
		log.Fatal("Failed to register 'opening_hours' validator", "error", err)
	}

	log.Info("Court validator initialized successfully")

	return &CourtValidator{
		validate: v,
		logger:   log,
	}
}

// validateOpeningHours accepts a string that survives a parse/format round
// trip unchanged in meaning. Unrecognized tokens parse to an empty week,
// which is still accepted since the grammar is tolerant by contract.
func validateOpeningHours(fl validator.FieldLevel) bool {
	raw := strings.TrimSpace(fl.Field().String())
	if raw == "" {
		return true
	}

	week := openinghours.Parse(raw)
	reparsed := openinghours.Parse(openinghours.Format(week))
	return week.Equal(reparsed)
}

func (cv *CourtValidator) ValidateUpdate(updates *model.CourtUpdate) error {
	if err := cv.validate.Struct(updates); err != nil {
		return cv.translate(err)
	}
	return nil
}

func (cv *CourtValidator) translate(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	var errs ValidationErrors
	for _, fieldErr := range validationErrors {
		errs = append(errs, ValidationError{
			Field:   fieldErr.Field(),
			Message: messageForTag(fieldErr),
		})
	}
	return errs
}

func messageForTag(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "min":
		return fmt.Sprintf("must be at least %s", fieldErr.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fieldErr.Param())
	case "opening_hours":
		return "is not a valid opening hours expression"
	default:
		return fmt.Sprintf("failed %s validation", fieldErr.Tag())
	}
}
