package util

import (
	"reflect"

	"github.com/go-playground/validator/v10"
	"gopkg.in/guregu/null.v3"

	"exusiai.dev/posecoach/internal/pkg/poseschema"
)

func NewValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterValidation("poseschema", poseSchema)
	validate.RegisterCustomTypeFunc(nullIntValuer, null.Int{})
	validate.RegisterCustomTypeFunc(nullStringValuer, null.String{})

	return validate
}

func poseSchema(fl validator.FieldLevel) bool {
	_, err := poseschema.Lookup(fl.Field().String())
	return err == nil
}

func nullIntValuer(field reflect.Value) interface{} {
	if valuer, ok := field.Interface().(null.Int); ok {
		return valuer.Int64
	}

	return nil
}

func nullStringValuer(field reflect.Value) interface{} {
	if valuer, ok := field.Interface().(null.String); ok {
		return valuer.String
	}

	return nil
}
