package service

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ttacon/libphonenumber"
	"golang.org/x/text/language"
)

// DefaultPhoneRegion is used to read national-format numbers.
const DefaultPhoneRegion = "IN"

const minPhoneDigits = 10

var (
	emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	for tag, fn := range customRules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("service: register validation %q: %v", tag, err))
		}
	}
	return v
}

var customRules = map[string]validator.Func{
	"kyc_phone": func(fl validator.FieldLevel) bool {
		return phoneDigits(fl.Field().String()) >= minPhoneDigits
	},
	"kyc_email": func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	},
	"kyc_lang": func(fl validator.FieldLevel) bool {
		_, err := language.Parse(fl.Field().String())
		return err == nil
	},
	"hexcolor6": func(fl validator.FieldLevel) bool {
		return colorPattern.MatchString(fl.Field().String())
	},
}

var reasons = map[string]string{
	"required":  "is required",
	"max":       "is too long",
	"gt":        "must be greater than zero",
	"gte":       "is out of range",
	"lte":       "is out of range",
	"datetime":  "must be a date in YYYY-MM-DD form",
	"kyc_phone": "must contain at least 10 digits",
	"kyc_email": "must be a valid email address",
	"kyc_lang":  "must be a BCP-47 language tag",
	"hexcolor6": "must be a colour in #RRGGBB form",
	"oneof":     "is not an accepted value",
}

// check runs struct validation and converts failures to a ValidationError.
func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		reason, ok := reasons[fe.Tag()]
		if !ok {
			reason = "is invalid"
		}
		fields[fieldPath(fe)] = reason
	}
	return &ValidationError{Fields: fields}
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func phoneDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// normalizePhone returns the E.164 form of phone, or "" when libphonenumber
// cannot read it as a valid number for region.
func normalizePhone(phone, region string) string {
	if region == "" {
		region = DefaultPhoneRegion
	}
	num, err := libphonenumber.Parse(phone, region)
	if err != nil || !libphonenumber.IsValidNumber(num) {
		return ""
	}
	return libphonenumber.Format(num, libphonenumber.E164)
}

// otpAddress is the key an OTP challenge is filed under. Numbers
// libphonenumber could not read fall back to their digits.
func otpAddress(e164, raw string) string {
	if e164 != "" {
		return e164
	}
	var b strings.Builder
	b.WriteByte('+')
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// canonicalLanguage returns the canonical form of a BCP-47 tag.
func canonicalLanguage(tag string) string {
	t, err := language.Parse(tag)
	if err != nil {
		return tag
	}
	return t.String()
}
