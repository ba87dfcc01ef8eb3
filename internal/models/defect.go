package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Defect kinds. Match with errors.Is.
var (
	ErrDuplicateSlug     = errors.New("duplicate slug")
	ErrDanglingReference = errors.New("dangling reference")
	ErrMalformedBlock    = errors.New("malformed block")
	ErrMissingField      = errors.New("missing required field")
	ErrInvalidField      = errors.New("invalid field")
)

// Defect is a content problem found while compiling or validating the corpus.
type Defect struct {
	Kind    error  `json:"-"`
	Source  string `json:"source"`           // slug of the record the defect was found on
	Target  string `json:"target,omitempty"` // referenced slug, for dangling references
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (d *Defect) Error() string {
	if d.Source == "" {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Kind, d.Source, d.Message)
}

func (d *Defect) Unwrap() error {
	return d.Kind
}

// KindName returns the defect kind as a short string, used for JSON reports and counts.
func (d *Defect) KindName() string {
	if d.Kind == nil {
		return "unknown"
	}
	return d.Kind.Error()
}

// MarshalJSON includes the kind, which is an error value and not directly encodable.
func (d Defect) MarshalJSON() ([]byte, error) {
	type alias Defect
	return json.Marshal(struct {
		Kind string `json:"kind"`
		alias
	}{Kind: (&d).KindName(), alias: alias(d)})
}
