package handlers

import (
	"sync"

	"gamebus_backend/internal/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags used by request DTOs.
func RegisterValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("month", func(fl validator.FieldLevel) bool {
				return models.IsValidMonth(fl.Field().String())
			})
		}
	})
}
