package web

import (
	"errors"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/eliteclass/ediary/internal/auth"
)

var registerOnce sync.Once

// registerValidators добавляет в валидатор gin тег strongpwd.
func registerValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("strongpwd", func(fl validator.FieldLevel) bool {
				return auth.StrongPassword(fl.Field().String())
			})
		}
	})
}

// failedTag: тег первого непрошедшего правила, "" для прочих ошибок.
func failedTag(err error) (field, tag string) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return ve[0].Field(), ve[0].Tag()
	}
	return "", ""
}
