package validation

import (
	"net/url"
	"reflect"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator with the storefront's custom tags:
//
//	notblank  string is non-empty after trimming
//	imageurl  absolute http(s) URL with a host
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// report json field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("notblank", notBlank)
	_ = v.RegisterValidation("imageurl", imageURL)

	return v
}

func notBlank(fl validatorv10.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func imageURL(fl validatorv10.FieldLevel) bool {
	u, err := url.Parse(strings.TrimSpace(fl.Field().String()))
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
