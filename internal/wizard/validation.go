package wizard

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"gigexecs-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// forms maps the form names used in definitions.yaml to the struct that
// decodes and validates the step's fields.
var forms = map[string]func() any{
	"gig.details":                  func() any { return &models.GigDetails{} },
	"gig.budget":                   func() any { return &models.GigBudget{} },
	"gig.attachments":              func() any { return &models.GigAttachments{} },
	"gig.questions":                func() any { return &models.GigQuestions{} },
	"onboarding.method":            func() any { return &models.OnboardingMethod{} },
	"onboarding.basic_info":        func() any { return &models.ProfessionalBasicInfo{} },
	"onboarding.work_experience":   func() any { return &models.WorkExperience{} },
	"onboarding.skills_industries": func() any { return &models.SkillsIndustries{} },
	"onboarding.languages":         func() any { return &models.Languages{} },
	"onboarding.hourly_rate":       func() any { return &models.HourlyRate{} },
	"client.basic_info":            func() any { return &models.ClientBasicInfo{} },
	"client.company":               func() any { return &models.ClientCompany{} },
}

// fieldChecker is implemented by forms with rules spanning several fields.
type fieldChecker interface {
	CheckFields() map[string]string
}

// DurationLabels are the accepted gig duration values.
var DurationLabels = []string{"less-than-1-month", "1-3-months", "3-6-months", "6-12-months", "12-months-plus"}

// ValidationError carries field-level messages keyed by the draft field path.
type ValidationError struct {
	Step   string
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "step %s is invalid:", e.Step)
	for _, name := range names {
		fmt.Fprintf(&b, " '%s': %s;", name, e.Fields[name])
	}
	return b.String()
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("positive_amount", func(fl validator.FieldLevel) bool {
		_, ok := models.NumberString(fl.Field().String()).PositiveAmount()
		return ok
	})
	_ = v.RegisterValidation("duration_label", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, label := range DurationLabels {
			if value == label {
				return true
			}
		}
		return false
	})
	return v
}

// validateForm decodes fields into the step's form and runs its rules.
func validateForm(v *validator.Validate, step Step, fields map[string]json.RawMessage) error {
	if step.Form == "" {
		return nil
	}
	form := forms[step.Form]()

	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, form); err != nil {
		return &ValidationError{Step: step.Name, Fields: decodeErrorFields(err)}
	}

	errs := map[string]string{}
	if err := v.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			errs[fieldPath(fe)] = getMessage(fe)
		}
	}
	if checker, ok := form.(fieldChecker); ok {
		for name, msg := range checker.CheckFields() {
			if _, exists := errs[name]; !exists {
				errs[name] = msg
			}
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Step: step.Name, Fields: errs}
	}
	return nil
}

func decodeErrorFields(err error) map[string]string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return map[string]string{typeErr.Field: "incorrect value type: expected " + typeErr.Type.String()}
	}
	return map[string]string{"_": "malformed value: " + err.Error()}
}

// fieldPath drops the form's struct name from the namespace so paths read
// like draft fields, for example selectedSkills[0].name.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func getMessage(fe validator.FieldError) string {
	switch fe.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return getMessageForList(fe)
	case reflect.String:
		return getMessageForString(fe)
	case reflect.Int, reflect.Int32, reflect.Int64, reflect.Float64:
		return getMessageForNumber(fe)
	}
	if fe.Tag() == "required" {
		return "this field is required"
	}
	return "incorrect value passed"
}

func getMessageForList(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min":
		return "should contain at least " + fe.Param() + " item(s)"
	case "max":
		return "should contain at most " + fe.Param() + " item(s)"
	}
	return "incorrect value passed"
}

func getMessageForNumber(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "lte", "max":
		return "should be less or equal than " + fe.Param()
	case "gte", "min":
		return "should be greater or equal than " + fe.Param()
	}
	return "incorrect value passed"
}

func getMessageForString(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "this field is required"
	case "lte", "max":
		return "length should be less or equal than " + fe.Param()
	case "gte", "min":
		return "length should be greater or equal than " + fe.Param()
	case "len":
		return "length should be exactly " + fe.Param()
	case "oneof":
		return "should have value in: " + fe.Param()
	case "duration_label":
		return "should have value in: " + strings.Join(DurationLabels, " ")
	case "positive_amount":
		return "should be a positive number"
	case "url":
		return "should be a valid URL"
	case "numeric":
		return "should contain digits only"
	case "alpha":
		return "should contain letters only"
	}
	return "incorrect value passed"
}
