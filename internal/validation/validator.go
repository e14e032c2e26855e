package validation

import (
	"regexp"
	"strings"

	"studyhall/internal/domain"
)

const (
	maxAnswerLength = 2000
	maxCourseName   = 255
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateID validates a resource identifier path parameter.
func (v *Validator) ValidateID(field, id string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(id) == "" {
		errors = append(errors, domain.NewMissingFieldError(field))
	} else if !isValidULID(id) {
		errors = append(errors, domain.NewInvalidFormatError(field, id))
	}

	return errors
}

// ValidateSubmitQuizRequest validates the shape of a quiz submission before
// it reaches the service. Answer keys are checked against the quiz there;
// here only sizes and formats are enforced.
func (v *Validator) ValidateSubmitQuizRequest(answers map[string]string, elapsedSec int) domain.ValidationErrors {
	var errors domain.ValidationErrors

	for questionID, answer := range answers {
		if !isValidULID(questionID) {
			errors = append(errors, domain.NewInvalidFormatError("answers", questionID))
		}
		if len(answer) > maxAnswerLength {
			errors = append(errors, domain.NewOutOfRangeError("answers."+questionID, len(answer), 0, maxAnswerLength))
		}
	}

	if elapsedSec < 0 {
		errors = append(errors, domain.NewOutOfRangeError("elapsed_sec", elapsedSec, 0, 86400))
	}

	return errors
}

// ValidateCreateCourseRequest validates a course creation request.
func (v *Validator) ValidateCreateCourseRequest(name string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(name) == "" {
		errors = append(errors, domain.NewMissingFieldError("name"))
	} else if len(name) > maxCourseName {
		errors = append(errors, domain.NewOutOfRangeError("name", len(name), 1, maxCourseName))
	}

	return errors
}

// isValidULID checks if the string is a valid ULID format
func isValidULID(s string) bool {
	// ULID is 26 characters long, Crockford's Base32
	if len(s) != 26 {
		return false
	}
	validULID := regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)
	return validULID.MatchString(s)
}
