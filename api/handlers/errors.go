package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/kutbudev/foodgram/pkg/repository"
	"go.uber.org/zap"
)

var (
	registerOnce    sync.Once
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
)

// RegisterValidators makes gin's validator report json field names and
// adds the custom tags used by the request DTOs.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		})
	})
}

// fieldErrors is the 400 body for invalid input: field name to messages.
type fieldErrors map[string][]string

func (f fieldErrors) add(field, msg string) {
	f[field] = append(f[field], msg)
}

// bindJSON decodes and validates the body, answering 400 on failure.
func (h *Handler) bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, bindingErrors(err))
		return false
	}
	return true
}

func bindingErrors(err error) fieldErrors {
	out := fieldErrors{}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			field, nested := fieldKey(fe)
			msg := fieldMessage(fe)
			if nested {
				msg = fe.Field() + ": " + msg
			}
			out.add(field, msg)
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		field, _, _ := strings.Cut(typeErr.Field, ".")
		out.add(field, fmt.Sprintf("Expected a value of type %s.", typeErr.Type))
		return out
	}

	out.add("non_field_errors", "Invalid request body.")
	return out
}

// fieldKey maps "Request.ingredients[0].amount" to "ingredients".
func fieldKey(fe validator.FieldError) (string, bool) {
	parts := strings.SplitN(fe.Namespace(), ".", 3)
	if len(parts) < 2 {
		return fe.Field(), false
	}
	field, _, _ := strings.Cut(parts[1], "[")
	return field, len(parts) == 3
}

func fieldMessage(fe validator.FieldError) string {
	kind := fe.Kind()
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	case "min":
		if kind == reflect.Slice {
			return fmt.Sprintf("Ensure this field has at least %s elements.", fe.Param())
		}
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "gt":
		return fmt.Sprintf("Ensure this value is greater than %s.", fe.Param())
	default:
		return "Invalid value."
	}
}

// badRequest answers a business rule violation.
func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"errors": msg})
}

func forbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{"detail": "You do not have permission to perform this action."})
}

// fail maps repository errors onto responses. Unknown errors are logged and
// reported as 500.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
	case errors.Is(err, repository.ErrSelfSubscription):
		badRequest(c, err.Error())
	case errors.Is(err, repository.ErrAlreadyExists):
		badRequest(c, "already exists")
	default:
		_ = c.Error(err)
		h.log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error."})
	}
}
