package profiles

import "errors"

var (
	// ErrEmptyInput means no usable text was available for structuring.
	ErrEmptyInput = errors.New("no text provided for processing")
	// ErrStructuringParse means the completion response could not be parsed
	// as JSON, even after scanning for an embedded object.
	ErrStructuringParse = errors.New("failed to parse completion response as JSON")
	// ErrPersistence covers constraint violations and connectivity loss on writes.
	ErrPersistence = errors.New("persistence failure")
	// ErrNotFound is returned for lookups of ids that do not exist.
	ErrNotFound = errors.New("submission not found")
)
