package search

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, StreetRequiredMessage, Message(newArgumentError("streetName", StreetRequiredMessage, nil)))
	assert.Equal(t, TooManyResultsMessage, Message(fmt.Errorf("wrapped: %w", ErrTooManyResults)))
	assert.Equal(t, "", Message(errors.New("boom")))
}
