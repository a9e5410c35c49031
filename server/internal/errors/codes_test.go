package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAPIError(t *testing.T) {
	err := NotFound("book not found")
	require.Equal(t, "[NOT_FOUND] book not found", err.Error())
	require.True(t, IsCode(err, ErrCodeNotFound))
	require.False(t, IsCode(err, ErrCodeUnauthorized))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(cause, ErrCodeInternal, "failed to reach database")
	require.Equal(t, "[INTERNAL] failed to reach database: connection refused", err.Error())
	require.ErrorIs(t, err, cause)
	require.True(t, IsCode(err, ErrCodeInternal))
}

func TestIsCodeOnPlainError(t *testing.T) {
	require.False(t, IsCode(stderrors.New("plain"), ErrCodeInternal))
}
