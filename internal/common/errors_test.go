package common

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoticeFor(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "missing image", err: ErrMissingImage, want: NoticeMissingImage},
		{name: "wrapped rejection", err: fmt.Errorf("classify: %w", ErrRemoteRejection), want: NoticeRejected},
		{name: "permission", err: ErrPermissionDenied, want: NoticePermissionDenied},
		{name: "empty selection", err: ErrEmptySelection, want: NoticeEmptySelection},
		{name: "transport", err: Transport("post", errors.New("connection refused")), want: NoticeSubmitFailed},
		{name: "user error wins", err: NewUserError("custom", ErrTransport), want: "custom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NoticeFor(tt.err))
		})
	}
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(Transport("post", errors.New("timeout"))))
	assert.True(t, IsRetryable(context.DeadlineExceeded))
	assert.False(t, IsRetryable(ErrRemoteRejection))
	assert.False(t, IsRetryable(ErrMissingImage))
	assert.False(t, IsRetryable(nil))
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(ErrMissingImage))
	assert.True(t, IsValidation(fmt.Errorf("wrap: %w", ErrEmptySelection)))
	assert.True(t, IsValidation(ErrUnknownRecord))
	assert.False(t, IsValidation(ErrTransport))
}

func TestTransport(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Transport("POST /resultados/add", cause)

	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, Transport("noop", nil))
	assert.Same(t, err, Transport("again", err))
}

func TestUserError(t *testing.T) {
	err := NewUserError("visible", ErrTransport)
	assert.Equal(t, "visible: transport failure", err.Error())
	assert.ErrorIs(t, err, ErrTransport)

	bare := NewUserError("only message", nil)
	assert.Equal(t, "only message", bare.Error())
}

func TestParseLevel(t *testing.T) {
	_, err := ParseLevel("loud")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	lvl, err := ParseLevel("debug")
	assert.NoError(t, err)
	assert.Equal(t, "DEBUG", lvl.String())
}
