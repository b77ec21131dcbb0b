// Package form 提供 HTML 表单的绑定与校验，错误按字段名归档，便于模板回显。
package form

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// NonFieldErrors 用于不属于任何字段的错误
const NonFieldErrors = "__all__"

var (
	usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
	setupOnce       sync.Once
)

// Errors 以字段名为键保存校验错误
type Errors map[string][]string

// Add 追加字段错误
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Has 判断某字段是否存在错误
func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// Get 返回字段的全部错误
func (e Errors) Get(field string) []string {
	return e[field]
}

// Any 判断是否存在任何错误
func (e Errors) Any() bool {
	for _, messages := range e {
		if len(messages) > 0 {
			return true
		}
	}
	return false
}

// String renders errors in a stable order for log output.
func (e Errors) String() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		if len(e[field]) == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(e[field], " ")))
	}
	return strings.Join(parts, "; ")
}

// Setup 向 gin 的校验引擎注册表单字段名和自定义规则，可重复调用；规则注册失败时 panic。
func Setup() {
	setupOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		engine.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
		if err := engine.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		}); err != nil {
			panic(fmt.Sprintf("form: register username validation: %v", err))
		}
	})
}

// bind 将请求表单绑定到 dst，并把校验失败转换为字段错误
func bind(c *gin.Context, dst interface{}) Errors {
	Setup()

	errs := Errors{}
	if err := c.ShouldBind(dst); err != nil {
		collect(errs, err)
	}
	return errs
}

// validate 对已填充的结构体重新执行校验
func validate(dst interface{}) Errors {
	Setup()

	errs := Errors{}
	if err := binding.Validator.ValidateStruct(dst); err != nil {
		collect(errs, err)
	}
	return errs
}

func collect(errs Errors, err error) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			errs.Add(fe.Field(), message(fe))
		}
		return
	}
	errs.Add(NonFieldErrors, "The submitted form could not be read.")
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "url":
		return "Enter a valid URL."
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	default:
		return "Enter a valid value."
	}
}
