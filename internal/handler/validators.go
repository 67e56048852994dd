package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators installs custom binding rules on gin's validator.
// Call once at startup, before routes are served.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("fiscalyear", validFiscalYear)
}

// validFiscalYear accepts a four digit year, e.g. "2026".
func validFiscalYear(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
