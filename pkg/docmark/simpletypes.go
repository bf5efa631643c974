package docmark

import (
	"strconv"
	"strings"
)

// SimpleType names a WordprocessingML simple attribute type. Attribute text
// is coerced through its declared simple type when a node is constructed or
// mutated; text that does not parse raises InvalidAttributeValueError.
type SimpleType int

const (
	// STString accepts any text.
	STString SimpleType = iota
	// STDecimalNumber accepts an optionally signed decimal integer.
	STDecimalNumber
	// STOnOff accepts the WML boolean-flag spellings. The empty string is
	// true: a bare <w:b/> turns bold on.
	STOnOff
)

func (t SimpleType) String() string {
	switch t {
	case STString:
		return "string"
	case STDecimalNumber:
		return "decimal number"
	case STOnOff:
		return "on/off value"
	default:
		return "unknown"
	}
}

// Check reports whether value is valid text for the simple type.
func (t SimpleType) Check(value string) bool {
	switch t {
	case STDecimalNumber:
		_, err := parseDecimalNumber(value)
		return err == nil
	case STOnOff:
		_, err := parseOnOff(value)
		return err == nil
	default:
		return true
	}
}

func parseDecimalNumber(value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, err
	}
	return n, nil
}

func parseOnOff(value string) (bool, error) {
	switch value {
	case "", "1", "true", "on":
		return true, nil
	case "0", "false", "off":
		return false, nil
	}
	return false, strconv.ErrSyntax
}
