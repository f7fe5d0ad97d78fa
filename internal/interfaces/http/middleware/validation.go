package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/van-william/carbon-sub017/internal/interfaces/http/dto"
)

// SetupValidator makes validation errors report json (or form) field names
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return ""
	})
}

// HandleValidationError writes a 400 listing the invalid fields of err
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, c.GetString(RequestIDKey)))
}

// FormatValidationErrors converts binding errors into the error envelope.
// Malformed JSON yields no details.
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail

	var fieldErrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &fieldErrs):
		details = make([]dto.ValidationDetail, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			details = append(details, dto.ValidationDetail{Field: fe.Field(), Message: fieldMessage(fe)})
		}
	case errors.As(err, &typeErr) && typeErr.Field != "":
		details = []dto.ValidationDetail{{Field: typeErr.Field, Message: "Must be of type " + typeErr.Type.String()}}
	}

	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

var fieldMessages = map[string]string{
	"required":      "This field is required",
	"required_with": "Required together with %s",
	"email":         "Invalid email format",
	"url":           "Invalid URL format",
	"uuid":          "Invalid UUID format",
	"oneof":         "Must be one of: %s",
	"dive":          "Invalid list item",
	"gt":            "Must be greater than %s",
	"gte":           "Must be greater than or equal to %s",
	"lt":            "Must be less than %s",
	"lte":           "Must be less than or equal to %s",
}

func fieldMessage(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "min":
		if isString {
			return "Must be at least " + fe.Param() + " characters"
		}
		return "Must be at least " + fe.Param()
	case "max":
		if isString {
			return "Must be at most " + fe.Param() + " characters"
		}
		if fe.Kind() == reflect.Slice {
			return "Must contain at most " + fe.Param() + " items"
		}
		return "Must be at most " + fe.Param()
	case "len":
		return "Must be exactly " + fe.Param() + " characters"
	}
	if msg, ok := fieldMessages[fe.Tag()]; ok {
		return strings.Replace(msg, "%s", fe.Param(), 1)
	}
	return "Invalid value"
}
