package errors_test

import (
	stderrors "errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/KaramelBytes/vgdash/internal/errors"
)

func TestDataUnavailableMatchesSentinel(t *testing.T) {
	err := apperr.DataUnavailable("vgsales.csv", os.ErrNotExist)
	assert.True(t, stderrors.Is(err, apperr.ErrDataUnavailable))
	assert.True(t, stderrors.Is(err, os.ErrNotExist))
	assert.False(t, stderrors.Is(err, apperr.ErrInvalidInput))
	assert.Contains(t, err.Error(), "vgsales.csv")
}

func TestWrapKeepsInnerCode(t *testing.T) {
	inner := apperr.InvalidInput("unknown region %q", "Mars")
	wrapped := apperr.Wrap(fmt.Errorf("select: %w", inner), "top-n")
	require.Error(t, wrapped)
	assert.Equal(t, apperr.CodeInvalidInput, apperr.GetCode(wrapped))
	assert.True(t, stderrors.Is(wrapped, apperr.ErrInvalidInput))
}

func TestWrapPlainErrorIsInternal(t *testing.T) {
	wrapped := apperr.Wrapf(stderrors.New("boom"), "render %s", "pie")
	assert.Equal(t, apperr.CodeInternalError, apperr.GetCode(wrapped))
	assert.Equal(t, "render pie: boom", wrapped.Error())
	assert.Nil(t, apperr.Wrap(nil, "nothing"))
}
