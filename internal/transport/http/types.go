package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var requestValidate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type errorResponse struct {
	Message string `json:"message"`
}

type submitAnswerRequest struct {
	QuestionID string   `json:"questionId" validate:"required"`
	Answer     string   `json:"answer" validate:"required"`
	TimeSpent  *float64 `json:"timeSpent,omitempty" validate:"omitempty,gte=0"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// validationMessage turns validator output into a short client-facing message.
func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "invalid request body"
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fe.Field()+" "+describeTag(fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

func describeTag(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "gte":
		return "must not be negative"
	default:
		return "is invalid"
	}
}
