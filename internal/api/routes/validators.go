package routes

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// registerValidators installs custom binding validations on gin's validator
// engine.
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// ticker accepts exchange symbols: uppercase letters and digits with
	// optional dot or dash separators, e.g. AAPL, BRK.B, BTC-USD.
	v.RegisterValidation("ticker", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if len(s) == 0 || len(s) > 12 {
			return false
		}
		for i := 0; i < len(s); i++ {
			c := s[i]
			switch {
			case c >= 'A' && c <= 'Z':
			case c >= '0' && c <= '9':
			case c == '.' || c == '-':
				if i == 0 || i == len(s)-1 {
					return false
				}
			default:
				return false
			}
		}
		return true
	})
}
