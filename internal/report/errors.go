package report

import "fmt"

// MalformedPayloadError means the gateway returned text that is not valid
// JSON. Raw carries the offending text for diagnostics; callers must not
// surface it to end users.
type MalformedPayloadError struct {
	Raw string
	Err error
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("malformed generation payload: %v", e.Err)
}

func (e *MalformedPayloadError) Unwrap() error { return e.Err }

// SchemaViolationError means a syntactically valid payload does not satisfy
// the report schema. Field is the dotted path of the offending field.
type SchemaViolationError struct {
	Field string
	Want  string
	Got   string
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("schema violation at %s: want %s, got %s", e.Field, e.Want, e.Got)
}
