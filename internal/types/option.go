package types

import (
	"fmt"
	"strings"
	"time"
)

// OptionType is the one-letter option right used in chain identifiers.
type OptionType string

const (
	OptionTypeCall OptionType = "C"
	OptionTypePut  OptionType = "P"
)

// OptionTypes lists the rights in enumeration order: Call before Put.
var OptionTypes = []OptionType{OptionTypeCall, OptionTypePut}

// ParseOptionType accepts C/P as well as call/put in any case.
func ParseOptionType(value string) (OptionType, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "C", "CALL":
		return OptionTypeCall, nil
	case "P", "PUT":
		return OptionTypePut, nil
	default:
		return "", fmt.Errorf("unknown option type %q", value)
	}
}

// IsValid reports whether t is C or P.
func (t OptionType) IsValid() bool {
	return t == OptionTypeCall || t == OptionTypePut
}

// ChainKey uniquely determines an option chain identifier.
type ChainKey struct {
	Symbol     string
	Expiration time.Time
	Strike     int
	Type       OptionType
}

// MonthlyRange is the low/high band of the underlying for one calendar month.
type MonthlyRange struct {
	Month time.Month
	Low   float64
	High  float64
	// Extrapolated is set when the month had no bars and the range was copied from the previous month.
	Extrapolated bool
}

// MonthlyRanges holds one range per month; index 0 is January.
type MonthlyRanges [12]MonthlyRange

// Get returns the range for month m.
func (r MonthlyRanges) Get(m time.Month) MonthlyRange {
	return r[m-1]
}
