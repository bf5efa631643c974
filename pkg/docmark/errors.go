package docmark

import (
	"fmt"
)

// SchemaViolationError reports a node that fails its declared schema:
// a missing required attribute or child, or a child appearing out of the
// declared order. These are fatal and surface at parse or construction time.
type SchemaViolationError struct {
	Tag     string
	Message string
}

func (e *SchemaViolationError) Error() string {
	if e.Tag != "" {
		return fmt.Sprintf("schema violation in <%s>: %s", e.Tag, e.Message)
	}
	return fmt.Sprintf("schema violation: %s", e.Message)
}

// NewSchemaViolationError creates a new schema violation error
func NewSchemaViolationError(tag, message string) error {
	return &SchemaViolationError{
		Tag:     tag,
		Message: message,
	}
}

// InvalidAttributeValueError reports attribute text that does not parse as
// its declared simple type.
type InvalidAttributeValueError struct {
	Tag       string
	Attribute string
	Value     string
	Type      string
}

func (e *InvalidAttributeValueError) Error() string {
	if e.Tag != "" {
		return fmt.Sprintf("invalid value %q for attribute %s of <%s>: not a valid %s",
			e.Value, e.Attribute, e.Tag, e.Type)
	}
	return fmt.Sprintf("invalid value %q for attribute %s: not a valid %s",
		e.Value, e.Attribute, e.Type)
}

// NewInvalidAttributeValueError creates a new invalid attribute value error
func NewInvalidAttributeValueError(tag, attribute, value, typeName string) error {
	return &InvalidAttributeValueError{
		Tag:       tag,
		Attribute: attribute,
		Value:     value,
		Type:      typeName,
	}
}

// DanglingRelationshipError reports a relationship id with no target in the
// owning part's relationship mapping. Resolved lazily at first use.
type DanglingRelationshipError struct {
	Part string
	ID   string
}

func (e *DanglingRelationshipError) Error() string {
	return fmt.Sprintf("dangling relationship %q in part %s", e.ID, e.Part)
}

// NewDanglingRelationshipError creates a new dangling relationship error
func NewDanglingRelationshipError(part, id string) error {
	return &DanglingRelationshipError{
		Part: part,
		ID:   id,
	}
}

// MalformedPartError reports a part whose payload failed to parse or
// validate at package open time, naming the offending element.
type MalformedPartError struct {
	Part    string
	Element string
	Cause   error
}

func (e *MalformedPartError) Error() string {
	if e.Element != "" && e.Cause != nil {
		return fmt.Sprintf("malformed part %s at <%s>: %v", e.Part, e.Element, e.Cause)
	} else if e.Cause != nil {
		return fmt.Sprintf("malformed part %s: %v", e.Part, e.Cause)
	}
	return fmt.Sprintf("malformed part %s", e.Part)
}

func (e *MalformedPartError) Unwrap() error {
	return e.Cause
}

// NewMalformedPartError creates a new malformed part error
func NewMalformedPartError(part, element string, cause error) error {
	return &MalformedPartError{
		Part:    part,
		Element: element,
		Cause:   cause,
	}
}

// PackageError represents an error during package-level operations such as
// opening the archive or reading the content-type registry.
type PackageError struct {
	Operation string
	Path      string
	Cause     error
}

func (e *PackageError) Error() string {
	if e.Path != "" && e.Cause != nil {
		return fmt.Sprintf("package error during %s of '%s': %v", e.Operation, e.Path, e.Cause)
	} else if e.Path != "" {
		return fmt.Sprintf("package error during %s of '%s'", e.Operation, e.Path)
	} else if e.Cause != nil {
		return fmt.Sprintf("package error during %s: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("package error during %s", e.Operation)
}

func (e *PackageError) Unwrap() error {
	return e.Cause
}

// NewPackageError creates a new package error
func NewPackageError(operation, path string, cause error) error {
	return &PackageError{
		Operation: operation,
		Path:      path,
		Cause:     cause,
	}
}

// IsSchemaViolation checks if an error is a schema violation error
func IsSchemaViolation(err error) bool {
	_, ok := err.(*SchemaViolationError)
	return ok
}

// IsInvalidAttributeValue checks if an error is an invalid attribute value error
func IsInvalidAttributeValue(err error) bool {
	_, ok := err.(*InvalidAttributeValueError)
	return ok
}

// IsDanglingRelationship checks if an error is a dangling relationship error
func IsDanglingRelationship(err error) bool {
	_, ok := err.(*DanglingRelationshipError)
	return ok
}

// IsMalformedPart checks if an error is a malformed part error
func IsMalformedPart(err error) bool {
	_, ok := err.(*MalformedPartError)
	return ok
}

// IsPackageError checks if an error is a package error
func IsPackageError(err error) bool {
	_, ok := err.(*PackageError)
	return ok
}

// DiagnosticKind classifies a non-fatal problem recovered during rendering.
type DiagnosticKind int

const (
	// DiagUnmatchedElement: an element tag with no registered renderer was
	// skipped (rendered as empty).
	DiagUnmatchedElement DiagnosticKind = iota
	// DiagUnresolvedBookmark: a REF field names a bookmark that is not
	// defined anywhere in the document.
	DiagUnresolvedBookmark
	// DiagDuplicateBookmark: a bookmark name was defined more than once;
	// the first definition wins.
	DiagDuplicateBookmark
	// DiagUnknownFieldVerb: a field instruction verb is not recognized and
	// renders as nothing.
	DiagUnknownFieldVerb
)

func (k DiagnosticKind) String() string {
	switch k {
	case DiagUnmatchedElement:
		return "unmatched element"
	case DiagUnresolvedBookmark:
		return "unresolved bookmark"
	case DiagDuplicateBookmark:
		return "duplicate bookmark"
	case DiagUnknownFieldVerb:
		return "unknown field verb"
	default:
		return "unknown"
	}
}

// Diagnostic is a non-fatal problem encountered while rendering. The render
// completes anyway; diagnostics travel on the Result rather than a side
// channel so callers can decide what to do with them.
type Diagnostic struct {
	Kind    DiagnosticKind
	Subject string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Kind, d.Subject)
}
