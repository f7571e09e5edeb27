//nolint:revive // Package name matches the package it tests
package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors(t *testing.T) {
	all := []error{
		ErrValidation, ErrNotFound, ErrSourceUnavailable,
		ErrMalformedRecord, ErrParse, ErrMarkerNotFound,
	}
	for i := range all {
		for j := range all {
			if i != j {
				assert.NotEqual(t, all[i], all[j])
			}
		}
	}
}

func TestDetailErrorError(t *testing.T) {
	detail := &DetailError{
		Type:     "validation failed",
		Message:  "window must be even",
		Location: "/home/me/.vutil/config.yaml",
		Context:  map[string]string{"Field": "binary.window"},
		Hint:     "Use a multiple of two",
	}

	out := detail.Error()

	assert.Contains(t, out, "Error: validation failed")
	assert.Contains(t, out, "Location: /home/me/.vutil/config.yaml")
	assert.Contains(t, out, "Field: binary.window")
	assert.Contains(t, out, "window must be even")
	assert.Contains(t, out, "Hint: Use a multiple of two")
}

func TestDetailErrorUnwrap(t *testing.T) {
	err := NewNotFoundError("no such manifest", "", "")
	assert.True(t, errors.Is(err, ErrNotFound))

	err = NewValidationError("bad", "", "")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestSourceUnavailableError(t *testing.T) {
	t.Run("matches sentinel and keeps cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := fmt.Errorf("tick: %w", &SourceUnavailableError{Source: "archive", Cause: cause})

		assert.True(t, errors.Is(err, ErrSourceUnavailable))
		assert.True(t, errors.Is(err, cause))

		var srcErr *SourceUnavailableError
		require.True(t, errors.As(err, &srcErr))
		assert.Equal(t, "archive", srcErr.Source)
		assert.Contains(t, err.Error(), `source "archive" unavailable`)
	})

	t.Run("timeout wording", func(t *testing.T) {
		err := &SourceUnavailableError{Source: "live", Timeout: true, Cause: context.DeadlineExceeded}
		assert.Contains(t, err.Error(), "timed out")
	})
}

func TestMalformedRecordError(t *testing.T) {
	err := &MalformedRecordError{Source: "live", Index: 4, Field: "build_info.version"}
	assert.True(t, errors.Is(err, ErrMalformedRecord))
	assert.Equal(t, `malformed record 4 from "live": missing build_info.version`, err.Error())

	err = &MalformedRecordError{Source: "archive", Index: -1, Field: "manifest"}
	assert.Equal(t, `malformed record from "archive": missing manifest`, err.Error())
}

func TestMarkerNotFoundError(t *testing.T) {
	err := &MarkerNotFoundError{Marker: "++Ares-Core+", Path: "game.exe"}
	assert.True(t, errors.Is(err, ErrMarkerNotFound))
	assert.Contains(t, err.Error(), "game.exe")
}

func TestWrap(t *testing.T) {
	err := Wrap(ErrNotFound, "engine table")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "engine table: not found", err.Error())
}
