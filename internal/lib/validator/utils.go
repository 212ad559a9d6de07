package validator

import (
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	govalidator "github.com/go-playground/validator/v10"
)

// MinReleaseYear is the year of the first known motion picture.
const MinReleaseYear = 1888

// New returns a validator with the custom tags registered: releaseyear,
// sortfield and notblank.
func New() *govalidator.Validate {
	v := govalidator.New(govalidator.WithRequiredStructEnabled())
	v.RegisterValidation("releaseyear", ValidateReleaseYear)
	v.RegisterValidation("sortfield", ValidateSortField)
	v.RegisterValidation("notblank", ValidateNotBlank)
	return v
}

func camelToSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func getFieldName(obj any, origFieldName string) (fieldName string) {
	t := reflect.TypeOf(obj)
	field, found := t.FieldByName(origFieldName)
	if !found {
		panic(fmt.Sprintf("Field %s not found in type %s", origFieldName, t.Name()))
	}
	fieldName = camelToSnake(origFieldName)
	if tag := field.Tag.Get("json"); tag != "" && tag != "-" {
		if jsonName := strings.Split(tag, ",")[0]; jsonName != "" {
			fieldName = jsonName
		}
	}
	return
}

func ProcessValidationErrors(obj any, errs govalidator.ValidationErrors) map[string]string {
	processedErrors := make(map[string]string)
	for _, e := range errs {
		processedErrors[getFieldName(obj, e.StructField())] = GetErrorMsgForField(obj, e)
	}
	return processedErrors
}

// ValidateStruct returns nil when obj is valid. obj must be a struct value,
// not a pointer.
func ValidateStruct(validator *govalidator.Validate, obj any) (validationErrs map[string]string) {
	if err := validator.Struct(obj); err != nil {
		validationErrs = ProcessValidationErrors(obj, err.(govalidator.ValidationErrors))
	}
	return
}

func GetErrorMsgForField(obj any, err govalidator.FieldError) (errorMsg string) {
	t := reflect.TypeOf(obj)
	field, found := t.FieldByName(err.StructField())
	if !found {
		panic(fmt.Sprintf("Field %s not found in type %s", err.StructField(), t.Name()))
	}
	errorMsg = field.Tag.Get("errorMsg")
	if errorMsg != "" {
		return
	}
	switch err.Tag() {
	case "required":
		errorMsg = "This field is required"
	case "max":
		if err.Kind() == reflect.String {
			errorMsg = fmt.Sprintf("Must be at most %s characters long", err.Param())
		} else {
			errorMsg = fmt.Sprintf("The maximum value is %s", err.Param())
		}
	case "min":
		if err.Kind() == reflect.String {
			errorMsg = fmt.Sprintf("Must be at least %s characters long", err.Param())
		} else {
			errorMsg = fmt.Sprintf("The minimum value is %s", err.Param())
		}
	case "gte":
		errorMsg = fmt.Sprintf("Value should be greater than or equal to %s", err.Param())
	case "lte":
		errorMsg = fmt.Sprintf("Value should be less than or equal to %s", err.Param())
	case "lt":
		errorMsg = fmt.Sprintf("Value should be less than %s", err.Param())
	case "gt":
		errorMsg = fmt.Sprintf("Value should be greater than %s", err.Param())
	case "eqfield", "eq":
		errorMsg = fmt.Sprintf("Value should be equal to %s", err.Param())
	case "nefield", "ne":
		errorMsg = fmt.Sprintf("Value should not be equal to %s", err.Param())
	case "oneof":
		errorMsg = fmt.Sprintf("Value should be one of %s", err.Param())
	case "len":
		errorMsg = fmt.Sprintf("Length should be equal to %s", err.Param())
	case "email":
		errorMsg = "Value must be a valid email address"
	case "alphanum":
		errorMsg = "Value must be alphanumeric"
	case "notblank":
		errorMsg = "Value must not be blank"
	case "releaseyear":
		errorMsg = fmt.Sprintf("Year must be between %d and %d", MinReleaseYear, maxReleaseYear())
	case "sortfield":
		errorMsg = fmt.Sprintf("Value must be one of %s, optionally prefixed with -", err.Param())
	default:
		errorMsg = "This field is invalid"
	}
	return
}

// CUSTOM VALIDATORS

func maxReleaseYear() int {
	return time.Now().Year() + 5
}

func ValidateReleaseYear(fl govalidator.FieldLevel) bool {
	var year int64
	switch fl.Field().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		year = fl.Field().Int()
	default:
		return false
	}
	return year >= MinReleaseYear && year <= int64(maxReleaseYear())
}

// ValidateSortField accepts one of the space separated columns in the tag
// param, with an optional "-" prefix for descending order.
func ValidateSortField(fl govalidator.FieldLevel) bool {
	sort := strings.TrimPrefix(fl.Field().String(), "-")
	for _, allowed := range strings.Fields(fl.Param()) {
		if sort == allowed {
			return true
		}
	}
	return false
}

func ValidateNotBlank(fl govalidator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
