package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("loading: %w", NotFound("event not found"))
	if KindOf(err) != KindNotFound {
		t.Fatalf("KindOf = %v, want NotFound", KindOf(err))
	}
	if KindOf(errors.New("boom")) != KindInternal {
		t.Fatal("plain errors should be internal")
	}
}

func TestValidationMessage(t *testing.T) {
	err := Validation(map[string]string{"person_id": "is required", "body_id": "is invalid"})
	if got := err.Error(); got != "validation failed: body_id is invalid, person_id is required" {
		t.Fatalf("Error() = %q", got)
	}
}

type sample struct {
	PersonID int64  `json:"person_id" validate:"required,gt=0"`
	BodyType string `json:"body_type" validate:"oneof=Group Event"`
}

func TestValidate(t *testing.T) {
	if err := Validate(sample{PersonID: 1, BodyType: "Group"}); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	err := Validate(sample{BodyType: "Person"})
	e, ok := As(err)
	if !ok || e.Kind != KindValidation {
		t.Fatalf("err = %v, want validation error", err)
	}
	if e.Fields["person_id"] != "is required" {
		t.Fatalf("person_id = %q", e.Fields["person_id"])
	}
	if e.Fields["body_type"] != "must be one of Group Event" {
		t.Fatalf("body_type = %q", e.Fields["body_type"])
	}
}
