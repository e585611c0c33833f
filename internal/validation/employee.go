package validation

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/aneeqdev/employee-directory/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

var (
	phonePattern   = regexp.MustCompile(`^[+]?[1-9]\d{9,14}$`)
	phoneSeparator = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

// Errors maps a JSON field name to its first failed rule message.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "invalid employee: " + strings.Join(parts, "; ")
}

// Validator sanitizes and checks employee form input before submission.
type Validator struct {
	validate  *validator.Validate
	sanitizer *bluemonday.Policy
	now       func() time.Time
}

// Option configures a Validator.
type Option func(*Validator)

// WithClock overrides the clock used for the hire date rule.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		v.now = now
	}
}

// New wires a Validator with the employee rules registered.
func New(opts ...Option) *Validator {
	v := &Validator{
		validate:  validator.New(),
		sanitizer: bluemonday.StrictPolicy(),
		now:       time.Now,
	}
	for _, o := range opts {
		o(v)
	}

	v.validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.mustRegister("phone", func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String())
	})
	v.mustRegister("isodate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(domain.DateLayout, fl.Field().String())
		return err == nil
	})
	v.mustRegister("notfuture", func(fl validator.FieldLevel) bool {
		d, err := time.Parse(domain.DateLayout, fl.Field().String())
		if err != nil {
			return false
		}
		now := v.now().UTC()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		return !d.After(today)
	})
	return v
}

func (v *Validator) mustRegister(tag string, fn validator.Func) {
	if err := v.validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %q validation: %v", tag, err))
	}
}

// maxSanitizeRounds bounds nested entity decoding.
const maxSanitizeRounds = 8

// Sanitize strips markup and surrounding whitespace from every text field.
// The result is plain text: entities are decoded and stripped again until
// nothing changes, so encoded markup cannot survive as live markup.
func (v *Validator) Sanitize(in domain.EmployeeInput) domain.EmployeeInput {
	clean := func(s string) string {
		return strings.TrimSpace(v.plainText(s))
	}
	return domain.EmployeeInput{
		FirstName:  clean(in.FirstName),
		LastName:   clean(in.LastName),
		Email:      strings.ToLower(clean(in.Email)),
		Phone:      clean(in.Phone),
		Title:      clean(in.Title),
		Department: clean(in.Department),
		Location:   clean(in.Location),
		HireDate:   clean(in.HireDate),
		Salary:     in.Salary,
	}
}

// plainText decodes s and strips it with the policy until stripping removes
// nothing more. What is left only needs the policy's escaping, which is then
// decoded again.
func (v *Validator) plainText(s string) string {
	for i := 0; i < maxSanitizeRounds; i++ {
		decoded := html.UnescapeString(s)
		stripped := v.sanitizer.Sanitize(decoded)
		if html.UnescapeString(stripped) == decoded {
			return decoded
		}
		s = stripped
	}
	return markupChars.Replace(html.UnescapeString(s))
}

var markupChars = strings.NewReplacer("<", "", ">", "")

// Check sanitizes the input and validates it, returning the cleaned input.
// A rule violation yields Errors; the caller must not submit the input then.
func (v *Validator) Check(in domain.EmployeeInput) (domain.EmployeeInput, error) {
	clean := v.Sanitize(in)
	err := v.validate.Struct(clean)
	if err == nil {
		return clean, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return clean, err
	}
	out := Errors{}
	for _, fe := range fieldErrs {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = message(fe)
		}
	}
	return clean, out
}

// ValidPhone accepts international numbers of 10 to 15 digits, ignoring
// spaces, dashes and parentheses.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phoneSeparator.Replace(phone))
}

var labels = map[string]string{
	"firstName":  "First name",
	"lastName":   "Last name",
	"email":      "Email",
	"phone":      "Phone",
	"title":      "Title",
	"department": "Department",
	"location":   "Location",
	"hireDate":   "Hire date",
	"salary":     "Salary",
}

func message(fe validator.FieldError) string {
	label := labels[fe.Field()]
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "email":
		return "Invalid email format"
	case "phone":
		return "Please enter a valid phone number (e.g., +1234567890 or 1234567890)"
	case "isodate":
		return "Hire date must be a date in YYYY-MM-DD format"
	case "notfuture":
		return "Hire date cannot be in the future"
	case "gt":
		return label + " must be positive"
	default:
		return label + " is invalid"
	}
}
