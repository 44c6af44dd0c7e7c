package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCrawlerErrorMessage(t *testing.T) {
	err := NewNetwork("5giay", "fetch thread", stderrors.New("connection reset"))
	assert.Equal(t, "[network] 5giay: fetch thread - connection reset", err.Error())

	err = NewValidation("mkcom", "empty table")
	assert.Equal(t, "[validation] mkcom: empty table", err.Error())
}

func TestCrawlerErrorUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	wrapped := fmt.Errorf("run: %w", NewStore("19-10-2026", "write rows", cause))

	assert.True(t, stderrors.Is(wrapped, cause))
	assert.True(t, IsType(wrapped, ErrorTypeStore))
	assert.False(t, IsType(wrapped, ErrorTypeNetwork))
	assert.False(t, IsType(cause, ErrorTypeStore))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, NewNetwork("5giay", "x", nil).IsRetryable())
	assert.True(t, NewStore("tab", "x", nil).IsRetryable())
	assert.False(t, NewRateLimit("5giay", time.Minute).IsRetryable())
	assert.False(t, NewParsing("mkcom", "x", nil).IsRetryable())
	assert.False(t, NewConfiguration("x", nil).IsRetryable())
	assert.False(t, NewCache("5giay", "x", nil).IsRetryable())
	assert.True(t, IsType(NewCache("5giay", "x", nil), ErrorTypeCache))
}
