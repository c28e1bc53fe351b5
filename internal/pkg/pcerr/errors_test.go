package pcerr

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestImmutable(t *testing.T) {
	e := New(400, "INVALID_REQUEST", "invalid request: some or all request parameters are invalid")
	changedE := e.Msg("%s", "changed")
	if e.Message == "changed" {
		t.Errorf("Expected immutable error with message not equal to 'changed', got '%s'", e.Message)
	}
	if changedE.Message != "changed" {
		t.Errorf("Expected immutable error with message equal to 'changed', got '%s'", changedE.Message)
	}
}

func TestIsMatchesDerivedErrors(t *testing.T) {
	derived := ErrIncompleteCapture.Msg("full body not visible: %d of %d landmarks visible", 10, 33).
		WithExtras(Extras{"visible": 10})

	assert.ErrorIs(t, derived, ErrIncompleteCapture)
	assert.ErrorIs(t, errors.Wrap(derived, "frame 12"), ErrIncompleteCapture)
	assert.NotErrorIs(t, derived, ErrDetectionFailure)
	assert.Nil(t, ErrIncompleteCapture.Extras)
}

func TestNewInvalidViolations(t *testing.T) {
	e := NewInvalidViolations([]string{"width"})

	assert.Equal(t, CodeInvalidRequest, e.ErrorCode)
	assert.Equal(t, []string{"width"}, (*e.Extras)["violations"])
	assert.Nil(t, ErrInvalidReq.Extras)
}

func TestWithExtraKeepsExistingExtras(t *testing.T) {
	base := ErrIncompleteCapture.WithExtras(Extras{"visible": 10})
	withFeedback := base.WithExtra("feedback", "fb")

	assert.Equal(t, Extras{"visible": 10}, *base.Extras)
	assert.Equal(t, Extras{"visible": 10, "feedback": "fb"}, *withFeedback.Extras)
	assert.Nil(t, ErrIncompleteCapture.Extras)
	assert.ErrorIs(t, withFeedback, ErrIncompleteCapture)
}
