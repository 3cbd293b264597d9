package validator

import (
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// IsValidID returns whether id is a canonical uuid
func IsValidID(id string) bool {
	parsed, err := uuid.Parse(id)
	return err == nil && parsed.String() == id
}

// New returns a validator that understands decimal.Decimal in numeric tags
// (gt, gte, ...) and the "id" tag.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	_ = v.RegisterValidation("id", func(fl validator.FieldLevel) bool {
		return IsValidID(fl.Field().String())
	})
	return v
}

func NewCustomValidator(v *validator.Validate) echo.Validator {
	return &CustomValidator{v}
}

type CustomValidator struct {
	validator *validator.Validate
}

func (v *CustomValidator) Validate(i interface{}) error {
	if err := v.validator.Struct(i); err != nil {
		return err
	}
	return nil
}
