package api

import (
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	slugPattern  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	registerOnce sync.Once
)

// RegisterValidators adds the `slug` and `difficulty` rules to gin's
// validator. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugPattern.MatchString(strings.ToLower(fl.Field().String()))
		})
		_ = v.RegisterValidation("difficulty", func(fl validator.FieldLevel) bool {
			switch strings.ToLower(fl.Field().String()) {
			case "easy", "medium", "hard":
				return true
			}
			return false
		})
	})
}
