package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func init() {
	// Report JSON field names in validation messages.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

var errInvalidRequest = errors.New("invalid request")

// decodeRequest reads a JSON body into dst and validates it. An empty body
// is accepted when allowEmpty is set.
func decodeRequest(r *http.Request, dst interface{}, allowEmpty bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if !(allowEmpty && errors.Is(err, io.EOF)) {
			return fmt.Errorf("%w: invalid request body: %v", errInvalidRequest, err)
		}
	}

	if errs := validate.Struct(dst); errs != nil {
		var verrs validator.ValidationErrors
		if !errors.As(errs, &verrs) {
			return fmt.Errorf("%w: %v", errInvalidRequest, errs)
		}
		var details strings.Builder
		for _, err := range verrs {
			if details.Len() > 0 {
				details.WriteString("; ")
			}
			switch err.Tag() {
			case "required":
				details.WriteString(fmt.Sprintf("%s is required", err.Field()))
			case "oneof":
				details.WriteString(fmt.Sprintf("%s must be one of [%s]", err.Field(), err.Param()))
			case "len":
				details.WriteString(fmt.Sprintf("%s must be %s characters", err.Field(), err.Param()))
			case "min":
				details.WriteString(fmt.Sprintf("%s must be at least %s", err.Field(), err.Param()))
			case "max":
				if err.Kind() == reflect.String {
					details.WriteString(fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param()))
				} else {
					details.WriteString(fmt.Sprintf("%s must be at most %s", err.Field(), err.Param()))
				}
			default:
				details.WriteString(fmt.Sprintf("%s failed %s validation", err.Field(), err.Tag()))
			}
		}
		return fmt.Errorf("%w: %s", errInvalidRequest, details.String())
	}
	return nil
}
