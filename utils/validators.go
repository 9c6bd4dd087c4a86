package utils

import (
	"strings"
	"unicode/utf8"

	"main/model"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

func InitValidator() {
	Validate = validator.New()
	Validate.RegisterValidation("categoryname", ValidateCategoryNameRule)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("categoryname", ValidateCategoryNameRule)
	}
}

func ValidateCategoryNameRule(fl validator.FieldLevel) bool {
	return ValidateCategoryName(fl.Field().String())
}

// ValidateCategoryName checks the UI constraint on template category names:
// non-empty after trimming and at most CategoryNameMaxRunes runes. Length is
// counted in runes, not bytes, since names are usually Korean.
func ValidateCategoryName(name string) bool {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return false
	}
	return utf8.RuneCountInString(trimmed) <= model.CategoryNameMaxRunes
}
