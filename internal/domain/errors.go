package domain

import "fmt"

// DecodeError reports a document that came back from the store missing a
// field, or holding a value outside its enum. The schema-less store cannot
// enforce shape, so every read is validated after decoding.
type DecodeError struct {
	Collection string
	Field      string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: missing or invalid field %q", e.Collection, e.Field)
}
