package validate

import (
	"go-happyhour/models"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

func init() {
	Validate = validator.New(validator.WithRequiredStructEnabled())

	// Category names contain spaces and ampersands, which oneof cannot express.
	Validate.RegisterValidation("venuecategory", func(fl validator.FieldLevel) bool {
		category := fl.Field().String()
		return category == "" || models.IsCategory(category)
	})
}

// Struct validates s against its validate tags.
func Struct(s any) error {
	return Validate.Struct(s)
}
