package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithDetails_MatchesSentinel(t *testing.T) {
	err := WithDetails(ErrValidation, "email: invalid format", "password: too short")

	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, []string{"email: invalid format", "password: too short"}, Details(err))
	assert.Contains(t, err.Error(), "email: invalid format")
}

func TestWithDetails_NoDetailsReturnsOriginal(t *testing.T) {
	err := WithDetails(ErrDuplicate)
	assert.Same(t, ErrDuplicate, err)
	assert.Nil(t, Details(err))
}

func TestDetails_SurvivesWrapping(t *testing.T) {
	inner := WithDetails(ErrOperationFailed, "constraint violated")
	outer := fmt.Errorf("updating user: %w", inner)

	assert.True(t, errors.Is(outer, ErrOperationFailed))
	assert.Equal(t, []string{"constraint violated"}, Details(outer))
}
