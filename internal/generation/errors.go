package generation

import "errors"

var (
	// ErrGenerationFailed is returned when a description could not be produced.
	ErrGenerationFailed = errors.New("failed to generate description")

	// ErrInvalidResponse is returned when the model response is empty or malformed.
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the model refuses the prompt.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for errors that may succeed on retry.
	ErrTransientFailure = errors.New("transient error during description generation")

	// ErrInvalidConfig is returned when the generator configuration is invalid.
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrEmptyProductName is returned when there is nothing to describe.
	ErrEmptyProductName = errors.New("product name cannot be empty")
)
