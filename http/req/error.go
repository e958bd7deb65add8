package req

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tep-hq/playbook"
)

// A ValidationError is an issue with a concrete value not matching the rule set on its field.
// Values of fields ending in "password" are masked whenever a ValidationError is printed or marshaled.
type ValidationError struct {
	Field string
	Got   any
	Rule  string
}

func (ve ValidationError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Field string `json:"field"`
		Got   any    `json:"got"`
		Rule  string `json:"rule,omitempty"`
	}{ve.Field, ve.shown(), ve.Rule})
}

// shown is Got, masked for password fields.
func (ve ValidationError) shown() any {
	if ve.Got != nil && strings.HasSuffix(strings.ToLower(ve.Field), "password") {
		return playbook.LogMaskVal
	}

	return ve.Got
}

// ValidationErrors is a set of ValidationError.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, ve := range v {
		msgs = append(msgs, fmt.Sprintf("field=%q rule=%q got=%q", ve.Field, ve.Rule, fmt.Sprint(ve.shown())))
	}

	return strings.Join(msgs, "\n")
}

func (v ValidationErrors) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		E []ValidationError `json:"validationErrors,omitempty"`
	}{v})
}

// Fields lists the fields that failed, in order.
func (v ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(v))
	for _, ve := range v {
		fields = append(fields, ve.Field)
	}

	return fields
}

func (ValidationErrors) Unwrap() error { return playbook.ErrNotValid }
