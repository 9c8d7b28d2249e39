package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"courtfinder/pkg/logger"
	"courtfinder/pkg/model"
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

type ReviewValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewReviewValidator(log *logger.Logger) *ReviewValidator {
	return &ReviewValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (rv *ReviewValidator) ValidateReview(review *model.Review) error {
	if err := rv.validate.Struct(review); err != nil {
		return rv.translate(err)
	}
	return nil
}

func (rv *ReviewValidator) ValidateUpdate(updates *model.ReviewUpdate) error {
	if err := rv.validate.Struct(updates); err != nil {
		return rv.translate(err)
	}
	return nil
}

func (rv *ReviewValidator) translate(err error) error {
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
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fieldErr.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fieldErr.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fieldErr.Param())
	case "mongodb":
		return "must be a valid object id"
	default:
		return fmt.Sprintf("failed %s validation", fieldErr.Tag())
	}
}
