package models

import (
	"fmt"
	"strconv"
)

// NumericRange bounds a numeric field. Either side may be open (nil).
// Ranges are read-only after construction.
type NumericRange struct {
	Min *float64 `yaml:"min,omitempty"`
	Max *float64 `yaml:"max,omitempty"`
}

// Validate reports a malformed range. Checked at form load so a bad
// declaration fails fast instead of surfacing mid-conversation.
func (r *NumericRange) Validate() error {
	if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		return fmt.Errorf("numeric range min %s is greater than max %s",
			formatBound(*r.Min), formatBound(*r.Max))
	}
	return nil
}

// Contains reports whether v falls inside the range.
func (r *NumericRange) Contains(v float64) bool {
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// Describe renders the range for use in prompt text, such as
// "between 1 and 5". An unbounded range describes as the empty string.
func (r *NumericRange) Describe() string {
	switch {
	case r.Min != nil && r.Max != nil:
		return fmt.Sprintf("between %s and %s", formatBound(*r.Min), formatBound(*r.Max))
	case r.Min != nil:
		return fmt.Sprintf("%s or more", formatBound(*r.Min))
	case r.Max != nil:
		return fmt.Sprintf("%s or less", formatBound(*r.Max))
	default:
		return ""
	}
}

// formatBound prints a bound without a trailing ".0" for whole numbers.
func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
