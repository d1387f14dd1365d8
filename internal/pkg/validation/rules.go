package validation

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/agentcommand/tracker/internal/app/models"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Custom binding tags
const (
	TagStudentStatus     = "studentstatus"
	TagDocsStatus        = "docsstatus"
	TagApplicationStatus = "appstatus"
	TagDocumentStatus    = "docstatus"
	TagPhone             = "phone"
)

// PhonePattern accepts international numbers with optional separators, e.g. "+233 20 123 4567"
var PhonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ()\-]{6,19}$`)

var rules = map[string]validator.Func{
	TagStudentStatus: func(fl validator.FieldLevel) bool {
		return models.StudentStatus(fl.Field().String()).Valid()
	},
	TagDocsStatus: func(fl validator.FieldLevel) bool {
		return models.DocsStatus(fl.Field().String()).Valid()
	},
	TagApplicationStatus: func(fl validator.FieldLevel) bool {
		return models.ApplicationStatus(fl.Field().String()).Valid()
	},
	TagDocumentStatus: func(fl validator.FieldLevel) bool {
		return models.DocumentStatus(fl.Field().String()).Valid()
	},
	TagPhone: func(fl validator.FieldLevel) bool {
		return PhonePattern.MatchString(fl.Field().String())
	},
}

// Register adds the custom tags to v
func Register(v *validator.Validate) error {
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s validation: %w", tag, err)
		}
	}
	return nil
}

var registerOnce sync.Once

// RegisterBindingRules adds the custom tags to gin's binding validator.
// Safe to call more than once.
func RegisterBindingRules() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			panic("gin binding validator is not go-playground/validator")
		}
		if err := Register(v); err != nil {
			panic(err)
		}
	})
}
