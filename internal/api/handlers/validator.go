package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"employee-portal/internal/api/apierror"
	"employee-portal/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their JSON name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(models.Date); ok {
			return d.Time
		}
		return nil
	}, models.Date{})

	_ = v.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		if !ok {
			return false
		}
		return !t.After(models.Today().Time)
	})

	return v
}

// fieldMessages holds the message for a "field.tag" failure.
var fieldMessages = map[string]string{
	"firstName.required":    "First name cannot be empty",
	"firstName.min":         "First name must have at least 2 characters",
	"lastName.required":     "Last name cannot be empty",
	"email.required":        "Email cannot be empty",
	"email.email":           "Invalid email format",
	"salary.min":            "salary must atleast be 0",
	"department.required":   "department name cannot be empty",
	"joiningDate.required":  "Joining date cannot be empty",
	"joiningDate.notfuture": "Joining date must be today or in the past",
	"username.required":     "Username cannot be empty",
	"password.required":     "Password cannot be empty",
}

func fieldError(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", fe.Field(), fe.Tag())
	}
}

// validateStruct returns a field -> message map, or nil when req is valid.
func validateStruct(req interface{}) map[string]string {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return map[string]string{"body": err.Error()}
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		if _, seen := fields[fe.Field()]; !seen {
			fields[fe.Field()] = fieldError(fe)
		}
	}
	return fields
}

// bindAndValidate binds the JSON body and runs the validate tags. It writes
// the 400 response itself and returns false on failure.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		apierror.AbortValidation(c, map[string]string{"body": "Malformed JSON request: " + err.Error()})
		return false
	}
	if fields := validateStruct(req); fields != nil {
		apierror.AbortValidation(c, fields)
		return false
	}
	return true
}
