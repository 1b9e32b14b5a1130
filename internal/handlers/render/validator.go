package render

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

func configureValidator(validate *validator.Validate) {
	_ = validate.RegisterValidation("inn", validateINN)
	validate.RegisterCustomTypeFunc(decimalAsFloat, decimal.Decimal{})
	validate.RegisterTagNameFunc(useJSONTagNames)
}

func useJSONTagNames(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	// skip if tag key says it should be ignored
	if name == "-" {
		return ""
	}
	return name
}

var innDigits = regexp.MustCompile(`^\d{10}$|^\d{12}$`)

func validateINN(fl validator.FieldLevel) bool {
	return innDigits.MatchString(fl.Field().String())
}

// decimalAsFloat lets numeric tags (gt, required) work on decimal fields.
// Precision checks stay in the service: float is fine for positivity only.
func decimalAsFloat(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}
