package event

import (
	"fmt"
	"strings"
	"time"

	"github.com/fkhayef/membership/internal/person"
)

// PreconditionChecker validates that a person may apply to a course
// themselves
type PreconditionChecker struct {
	event  *Event
	person *person.Person
	now    time.Time
	errors []string
}

// NewPreconditionChecker runs the checks for p applying to e at now
func NewPreconditionChecker(e *Event, p *person.Person, now time.Time) *PreconditionChecker {
	c := &PreconditionChecker{event: e, person: p, now: now}
	c.check()
	return c
}

func (c *PreconditionChecker) check() {
	if !c.event.ApplicationPossible(c.now) {
		c.errors = append(c.errors, "Applications for this course are not open.")
	}

	if c.event.MinimumAge != nil {
		ref := c.now
		if c.event.StartsAt != nil {
			ref = *c.event.StartsAt
		}
		switch {
		case c.person.Birthday == nil:
			c.errors = append(c.errors, "Birthday is required to check the minimum age.")
		case ageAt(*c.person.Birthday, ref) < *c.event.MinimumAge:
			c.errors = append(c.errors, fmt.Sprintf("Minimum age of %d years not reached at the start of the course.", *c.event.MinimumAge))
		}
	}
}

// Valid reports whether all checks passed
func (c *PreconditionChecker) Valid() bool {
	return len(c.errors) == 0
}

// Errors returns the failed checks
func (c *PreconditionChecker) Errors() []string {
	return c.errors
}

// ErrorsText joins the failed checks into one message
func (c *PreconditionChecker) ErrorsText() string {
	if c.Valid() {
		return ""
	}
	return "Preconditions for this course are not fulfilled: " + strings.Join(c.errors, " ")
}

func ageAt(birthday, at time.Time) int {
	age := at.Year() - birthday.Year()
	if at.Month() < birthday.Month() || (at.Month() == birthday.Month() && at.Day() < birthday.Day()) {
		age--
	}
	return age
}
