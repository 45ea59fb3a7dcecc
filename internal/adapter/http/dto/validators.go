package dto

import (
	"html"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	// Bangladeshi mobile numbers: 11 digits starting with 01.
	mobileRe = regexp.MustCompile(`^01\d{9}$`)
	pinRe    = regexp.MustCompile(`^\d{5}$`)
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("bd_mobile", validateMobile)
		_ = v.RegisterValidation("pin", validatePin)
		_ = v.RegisterValidation("taka", validateTaka)
	}
}

func validateMobile(fl validator.FieldLevel) bool {
	return mobileRe.MatchString(fl.Field().String())
}

// validatePin requires exactly five digits.
func validatePin(fl validator.FieldLevel) bool {
	return pinRe.MatchString(fl.Field().String())
}

// validateTaka caps amounts at two fractional digits, matching the
// NUMERIC(14,2) balance columns. Finer scale would round away from the
// computed fee split on write.
func validateTaka(fl validator.FieldLevel) bool {
	d, ok := fl.Field().Interface().(decimal.Decimal)
	if !ok {
		return false
	}
	return d.Equal(d.Round(2))
}

// SanitizeStruct trims whitespace and HTML-escapes every exported string
// field (including *string) of a struct pointer.
func SanitizeStruct(v interface{}) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return
	}
	sanitizeFields(rv.Elem())
}

func sanitizeFields(rv reflect.Value) {
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanSet() {
			continue
		}
		switch f.Kind() {
		case reflect.String:
			f.SetString(sanitize(f.String()))
		case reflect.Ptr:
			if f.IsNil() {
				continue
			}
			elem := f.Elem()
			if elem.Kind() == reflect.String {
				elem.SetString(sanitize(elem.String()))
			}
		}
	}
}

func sanitize(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}
