package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/college-feedback/feedback-service/internal/model"
)

// RegisterValidations hooks the domain enums into gin's binding validator so
// DTO tags like `binding:"omitempty,priority"` reject unknown values at bind
// time. Call once at startup.
func RegisterValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterValidation("feedback_status", func(fl validator.FieldLevel) bool {
		return model.Status(fl.Field().String()).Valid()
	})
	v.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		return model.Priority(fl.Field().String()).Valid()
	})
	v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return model.ValidRole(model.Role(fl.Field().String()))
	})
}
