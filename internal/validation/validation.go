// Package validation configures go-playground/validator the same way for gin request
// binding and for direct service calls.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared validator. It reads the same `binding` tags gin does.
func Validator() *validator.Validate {
	once.Do(func() {
		instance = validator.New()
		instance.SetTagName("binding")
		configure(instance)
	})
	return instance
}

// RegisterGin applies the same configuration to gin's validator engine.
func RegisterGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected gin validator engine")
	}
	configure(v)
	return nil
}

// Struct validates s with the shared validator.
func Struct(s any) error {
	return Validator().Struct(s)
}

func configure(v *validator.Validate) {
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("maxbytes", maxBytes)
	v.RegisterTagNameFunc(fieldName)
}

// maxBytes limits the UTF-8 encoded length of a string, where max counts characters.
// bcrypt refuses passwords longer than 72 bytes.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil || fl.Field().Kind() != reflect.String {
		return false
	}
	return len(fl.Field().String()) <= limit
}

// fieldName reports fields by their json, form or uri name.
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form", "uri"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// Message turns a binding or validation error into a short reason for the caller.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		if fe.Param() != "" {
			return fmt.Sprintf("%s failed on %s=%s", field, fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("%s failed on %s", field, fe.Tag())
	}
	return "Invalid request: " + err.Error()
}
