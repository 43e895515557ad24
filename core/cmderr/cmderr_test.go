package cmderr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode_names(t *testing.T) {
	for code := OK; code <= InvalidPID; code++ {
		t.Run(code.String(), func(t *testing.T) {
			assert.NotEqual(t, "UNKNOWN_CODE", code.String())
		})
	}

	assert.Equal(t, "UNKNOWN_CODE", Code(99).String())
}

func TestCode_Displayed(t *testing.T) {
	assert.False(t, OK.Displayed())
	assert.False(t, UnknownCommand.Displayed())

	for _, code := range []Code{
		InvalidArgumentNumber,
		InvalidArgument,
		InvalidFilePath,
		UnableToOpenNotepad,
		ForkError,
		InvalidProcessInput,
		InvalidPID,
	} {
		assert.True(t, code.Displayed(), code.String())
		assert.NotEmpty(t, code.Message(), code.String())
	}
}

func TestCode_errorsIs(t *testing.T) {
	var err error = InvalidPID
	wrapped := fmt.Errorf("kill: %w", err)

	assert.True(t, errors.Is(wrapped, InvalidPID))
	assert.False(t, errors.Is(wrapped, InvalidArgument))
	assert.Equal(t, "invalid PID", err.Error())
}

func TestFromError(t *testing.T) {
	code, ok := FromError(nil)
	assert.True(t, ok)
	assert.Equal(t, OK, code)

	code, ok = FromError(ForkError)
	assert.True(t, ok)
	assert.Equal(t, ForkError, code)

	_, ok = FromError(errors.New("disk on fire"))
	assert.False(t, ok)
}
