package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompleter(t *testing.T) {
	completer := Completer()

	assert.Len(t, completer.GetChildren(), 7)
}
