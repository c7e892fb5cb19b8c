package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinels_AreDistinct(t *testing.T) {
	all := []error{
		ErrorNotFound, ErrorConflict, ErrorCorrupt,
		ErrorInternal, ErrorUnauthorized, ErrorValidation,
		ErrInvalidToken, ErrTokenExpired,
	}
	for i, a := range all {
		for j, b := range all {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(a, b), "%v must not match %v", a, b)
		}
	}
}

func TestSentinels_SurviveWrapping(t *testing.T) {
	err := fmt.Errorf("read users/a_b_com.md: %w", ErrorNotFound)
	assert.ErrorIs(t, err, ErrorNotFound)
	assert.NotErrorIs(t, err, ErrorConflict)
}
