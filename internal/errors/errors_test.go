package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditErrorString(t *testing.T) {
	err := NewTargetNotFoundError("cta-btn")
	assert.Equal(t, "[ERR_TARGET_NOT_FOUND] component:cta-btn target element not found in document", err.Error())

	wrapped := NewParseError(fmt.Errorf("unexpected EOF"))
	assert.Contains(t, wrapped.Error(), "unexpected EOF")
	assert.ErrorContains(t, errors.Unwrap(wrapped), "unexpected EOF")
}

func TestSentinelMatching(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"empty input", NewEmptyInputError(), ErrEmptyInput},
		{"unresolved", NewUnresolvedIntentError("do something"), ErrUnresolvedIntent},
		{"target", NewTargetNotFoundError("hero-section"), ErrTargetNotFound},
		{"parse", NewParseError(nil), ErrParseFailure},
		{"document", NewDocumentNotFoundError("home"), ErrDocumentNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)
			assert.ErrorIs(t, fmt.Errorf("wrapped: %w", tt.err), tt.sentinel)
			assert.True(t, IsRecoverable(tt.err))
		})
	}

	assert.NotErrorIs(t, NewEmptyInputError(), ErrUnresolvedIntent)
}

func TestUnresolvedKeepsInput(t *testing.T) {
	err := NewUnresolvedIntentError("make it pop")
	assert.Equal(t, "make it pop", err.Context["input"])
}

func TestCodeOfAndUserMessage(t *testing.T) {
	assert.Equal(t, ErrCodeEmptyInput, CodeOf(NewEmptyInputError()))
	assert.Equal(t, ErrCodeInternalError, CodeOf(errors.New("boom")))

	assert.Empty(t, UserMessage(nil))
	assert.Contains(t, UserMessage(NewUnresolvedIntentError("x")), "more specific")
	assert.Contains(t, UserMessage(NewEmptyInputError()), "enter")
	assert.Contains(t, UserMessage(errors.New("boom")), "went wrong")
}

func TestConfigErrorNotRecoverable(t *testing.T) {
	err := NewConfigError("bad port", nil)
	assert.False(t, IsRecoverable(err))
	assert.False(t, IsRecoverable(errors.New("plain")))
}

type recordingLogger struct {
	warns  int
	errors int
}

func (l *recordingLogger) Error(ctx context.Context, err error, msg string, fields ...interface{}) {
	l.errors++
}

func (l *recordingLogger) Warn(ctx context.Context, err error, msg string, fields ...interface{}) {
	l.warns++
}

func TestErrorHandler(t *testing.T) {
	logger := &recordingLogger{}
	handler := NewErrorHandler(logger)
	ctx := context.Background()

	handler.Handle(ctx, nil)
	handler.Handle(ctx, NewEmptyInputError())
	handler.Handle(ctx, NewInternalError("oops", nil))
	handler.Handle(ctx, errors.New("plain"))

	require.Equal(t, 1, logger.warns)
	assert.Equal(t, 2, logger.errors)
}
