package validator

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"negociosverdes/internal/catalog"
	"negociosverdes/pkg/logger"
	"negociosverdes/pkg/model"

	"github.com/go-playground/validator/v10"
)

var versionRegex = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

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

// Details renders the errors as a field to message map for error responses.
func (v ValidationErrors) Details() map[string]any {
	details := make(map[string]any, len(v))
	for _, err := range v {
		details[err.Field] = err.Message
	}
	return details
}

type DatasetValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewDatasetValidator(log *logger.Logger) *DatasetValidator {
	v := validator.New()

	if err := v.RegisterValidation("category", validateCategory); err != nil {
		log.Fatal("Failed to register 'category' validator",
			"error", err,
		)
	}
	if err := v.RegisterValidation("version_token", validateVersionToken); err != nil {
		log.Fatal("Failed to register 'version_token' validator",
			"error", err,
		)
	}

	log.Debug("Dataset validator initialized successfully")

	return &DatasetValidator{
		validate: v,
		logger:   log,
	}
}

func validateCategory(fl validator.FieldLevel) bool {
	return slices.Contains(catalog.CategoryNames(), fl.Field().String())
}

func validateVersionToken(fl validator.FieldLevel) bool {
	return versionRegex.MatchString(fl.Field().String())
}

func (v *DatasetValidator) ValidateQuery(q *model.RecordQuery) error {
	return v.validateStruct(q)
}

func (v *DatasetValidator) ValidateClassify(req *model.ClassifyRequest) error {
	return v.validateStruct(req)
}

func (v *DatasetValidator) ValidateRefresh(req *model.RefreshRequest) error {
	return v.validateStruct(req)
}

func (v *DatasetValidator) validateStruct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *DatasetValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "required_without_all":
			message = fmt.Sprintf("%s is required when %s are empty", err.Field(), strings.ReplaceAll(err.Param(), " ", " and "))
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "category":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), strings.Join(catalog.CategoryNames(), ", "))
		case "version_token":
			message = fmt.Sprintf("%s may only contain letters, digits, '.', '_' and '-'", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
