// Package validate wires the custom request-binding rules into gin's
// validator engine and turns binding failures into per-field messages.
package validate

import (
	"encoding/json"
	"errors"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	pkgerrors "github.com/22146025/lord-s-heart-educational-complex/pkg/errors"
)

// custom tags & texts
const (
	trimmedMinTag  = "trimmedmin"
	trimmedMinText = "{0} must be at least {1} characters long"

	hasAtTag  = "hasat"
	hasAtText = "{0} must be a valid email address"

	requiredTag  = "required"
	requiredText = "this field is required"
)

var (
	once       sync.Once
	translator ut.Translator
)

// Register installs the custom rules and English messages on gin's default
// validator. Safe to call more than once.
func Register() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		english := en.New()
		uni := ut.New(english, english)
		translator, _ = uni.GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(v, translator)

		// json names in error keys
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			if name == "-" {
				return ""
			}
			return name
		})

		_ = v.RegisterValidation(trimmedMinTag, trimmedMin)
		_ = v.RegisterValidation(hasAtTag, hasAt)
		registerTranslation(v, trimmedMinTag, trimmedMinText, false)
		registerTranslation(v, hasAtTag, hasAtText, false)
		registerTranslation(v, requiredTag, requiredText, true)
	})
}

func registerTranslation(v *validator.Validate, tag, text string, override bool) {
	_ = v.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, override) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field(), fe.Param())
			return s
		},
	)
}

// trimmedMin length of the whitespace-trimmed string is at least the param
func trimmedMin(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= n
}

// hasAt deliberately weak email check, only the '@' is required
func hasAt(fl validator.FieldLevel) bool {
	return strings.Contains(fl.Field().String(), "@")
}

// Fields converts a binding error into field → messages. Malformed bodies
// are reported under non_field_errors, or under the offending field when
// the decoder names it.
func Fields(err error) map[string][]string {
	out := make(map[string][]string)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			key := fieldKey(fe)
			msg := fe.Error()
			if translator != nil {
				msg = fe.Translate(translator)
			}
			out[key] = append(out[key], msg)
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		out[typeErr.Field] = append(out[typeErr.Field], "invalid value type, expected "+typeErr.Type.String())
		return out
	}

	out[pkgerrors.NonFieldErrors] = []string{err.Error()}
	return out
}

// fieldKey namespace without the root struct name, e.g. "profile.role"
func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
