package kernel

import (
	"fmt"
	"regexp"
	"strings"

	"heblo/internal/pkg/errs"
	"heblo/internal/pkg/guard"
)

// ErrBoxCodeIsNotConstructed is returned when a zero-value BoxCode is used.
var ErrBoxCodeIsNotConstructed = errs.NewValueIsRequiredError("box code must be created via NewBoxCode")

var boxCodePattern = regexp.MustCompile(`^B\d{3}$`)

// BoxCode identifies a physical transport box: the letter B followed by three digits.
// Input is accepted case-insensitively and normalized to upper case, so "b001" and
// "B001" produce equal codes.
//
// Example:
//
//	code, err := kernel.NewBoxCode(" b042 ")
//	if err != nil {
//	    // Handle validation error
//	}
//	fmt.Println(code) // Output: B042
type BoxCode struct { //nolint:recvcheck //using for validation
	value string
	guard guard.ConstructorGuard
}

// NewBoxCode trims and upper-cases raw and checks it against the B + 3 digits format.
func NewBoxCode(raw string) (BoxCode, error) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	if normalized == "" {
		return BoxCode{}, errs.NewValueIsRequiredError("box code")
	}

	if !boxCodePattern.MatchString(normalized) {
		return BoxCode{}, errs.NewValueIsInvalidErrorWithCause(
			"box code is invalid",
			fmt.Errorf("%q does not match the B + 3 digits format", raw),
		)
	}

	return BoxCode{value: normalized, guard: guard.NewConstructorGuard()}, nil
}

// Validate reports whether the code was created through NewBoxCode.
func (c BoxCode) Validate() error {
	return c.guard.Validate(ErrBoxCodeIsNotConstructed)
}

// String returns the normalized code, or an empty string for the zero value.
func (c BoxCode) String() string {
	return c.value
}

// IsZero reports whether no code is held.
func (c BoxCode) IsZero() bool {
	return c.value == ""
}

// IsEqual compares two codes after normalization.
func (c BoxCode) IsEqual(other BoxCode) bool {
	return c.value == other.value
}

// Matches reports whether raw, once normalized, equals the code.
// Used for the physical double-entry confirmation when a box leaves the warehouse.
func (c BoxCode) Matches(raw string) bool {
	return !c.IsZero() && strings.EqualFold(strings.TrimSpace(raw), c.value)
}
