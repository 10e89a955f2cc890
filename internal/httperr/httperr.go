package httperr

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// FieldError is the per-field element of the validation envelope.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func BadRequest(c *gin.Context, message string) {
	Write(c, http.StatusBadRequest, message)
}

func Unauthorized(c *gin.Context, message string) {
	Write(c, http.StatusUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	Write(c, http.StatusForbidden, message)
}

func NotFound(c *gin.Context, message string) {
	Write(c, http.StatusNotFound, message)
}

func TooManyRequests(c *gin.Context, message string) {
	Write(c, http.StatusTooManyRequests, message)
}

// Internal suppresses the underlying message in production.
func Internal(c *gin.Context, production bool, err error) {
	if production {
		Write(c, http.StatusInternalServerError, "Something went wrong!")
		return
	}
	Write(c, http.StatusInternalServerError, err.Error())
}

// Fields writes the field-validation envelope.
func Fields(c *gin.Context, fields []FieldError) {
	c.JSON(http.StatusBadRequest, gin.H{"errors": fields})
}

// Binding translates a ShouldBindJSON error. Tag failures from the bundled
// validator become field errors; anything else (malformed JSON, wrong
// types) collapses to a single message.
func Binding(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{
				Field:   fe.Field(),
				Message: tagMessage(fe),
			})
		}
		Fields(c, fields)
		return
	}
	BadRequest(c, "Invalid request body")
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Invalid email format"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s cannot exceed %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s cannot exceed %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s cannot be negative", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
