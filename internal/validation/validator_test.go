package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateID(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateID("id", "01HGZ8VNRYXS8QKNJV5GRWPWDQ"))

	errs := v.ValidateID("id", "")
	assert.Len(t, errs, 1)
	assert.Equal(t, "id", errs[0].Field)

	assert.Len(t, v.ValidateID("id", "not-a-ulid"), 1)
	// I, L, O and U are not part of Crockford's Base32.
	assert.Len(t, v.ValidateID("id", "01HGZ8VNRYXS8QKNJV5GRWPWDI"), 1)
}

func TestValidateSubmitQuizRequest(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateSubmitQuizRequest(map[string]string{
		"01HGZ8VNRYXS8QKNJV5GRWPWDQ": "answer a",
	}, 120))

	errs := v.ValidateSubmitQuizRequest(map[string]string{"bad-key": "a"}, -1)
	assert.Len(t, errs, 2)

	tooLong := strings.Repeat("x", maxAnswerLength+1)
	errs = v.ValidateSubmitQuizRequest(map[string]string{
		"01HGZ8VNRYXS8QKNJV5GRWPWDQ": tooLong,
	}, 0)
	assert.Len(t, errs, 1)
}

func TestValidateCreateCourseRequest(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateCreateCourseRequest("Go Fundamentals"))
	assert.Len(t, v.ValidateCreateCourseRequest("   "), 1)
	assert.Len(t, v.ValidateCreateCourseRequest(strings.Repeat("n", maxCourseName+1)), 1)
}
