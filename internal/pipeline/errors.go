package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrRecognition marks failures of the upstream named-entity recognizer
	ErrRecognition = errors.New("entity recognition failed")
	// ErrTextTooLong is returned when input exceeds the configured maximum length
	ErrTextTooLong = errors.New("text too long")
)

// RecognitionError reports why the recognizer could not label the text.
// errors.Is(err, ErrRecognition) holds for every RecognitionError.
type RecognitionError struct {
	Recognizer string
	Reason     string
	Err        error
}

func (e *RecognitionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("recognizer %s: %s", e.Recognizer, e.Reason)
	}
	return fmt.Sprintf("recognizer %s: %s: %v", e.Recognizer, e.Reason, e.Err)
}

func (e *RecognitionError) Unwrap() error {
	return e.Err
}

// Is makes every RecognitionError match ErrRecognition
func (e *RecognitionError) Is(target error) bool {
	return target == ErrRecognition
}
