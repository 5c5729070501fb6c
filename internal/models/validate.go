package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/dmitrijs2005/scholarkeeper/internal/common"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func engine() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("notblank", validators.NotBlank)
		_ = v.RegisterValidation("scholarship_status", func(fl validator.FieldLevel) bool {
			return ScholarshipStatus(fl.Field().String()).IsValid()
		})
		_ = v.RegisterValidation("document_type", func(fl validator.FieldLevel) bool {
			return DocumentType(fl.Field().String()).IsValid()
		})
		_ = v.RegisterValidation("document_status", func(fl validator.FieldLevel) bool {
			return DocumentStatus(fl.Field().String()).IsValid()
		})
		_ = v.RegisterValidation("template_origin", func(fl validator.FieldLevel) bool {
			return TemplateOrigin(fl.Field().String()).IsValid()
		})
		validate = v
	})
	return validate
}

// Validate checks an entity's struct tags and returns a *common.ValidationError
// listing every failing field.
func Validate(entity any) error {
	err := engine().Struct(entity)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		switch e.Tag() {
		case "required", "notblank":
			msgs = append(msgs, fmt.Sprintf("%s is required", e.Field()))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be greater than or equal to %s", e.Field(), e.Param()))
		case "scholarship_status", "document_type", "document_status", "template_origin":
			msgs = append(msgs, fmt.Sprintf("%s has invalid value %q", e.Field(), fmt.Sprint(e.Value())))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}
	return common.NewValidation(msgs...)
}
