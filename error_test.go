package policylens_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/policylens"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := policylens.Errorf(policylens.ELINKNOTFOUND, "no privacy link on %q", "https://example.com")

	assert.Equal(t, policylens.ELINKNOTFOUND, policylens.ErrorCode(err))
	assert.Equal(t, "no privacy link on \"https://example.com\"", policylens.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, policylens.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, policylens.ErrorMessage(nil))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("fetching policy: %w", policylens.Errorf(policylens.EFETCH, "HTTP 500"))

	assert.Equal(t, policylens.EFETCH, policylens.ErrorCode(err))
	assert.Equal(t, "HTTP 500", policylens.ErrorMessage(err))
}

func TestErrorCode_ContextCanceled(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("request: %w", context.Canceled)

	assert.Equal(t, policylens.ECANCELED, policylens.ErrorCode(err))
}

func TestErrorCode_PlainError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, policylens.EINTERNAL, policylens.ErrorCode(err))
	assert.Equal(t, "Internal error.", policylens.ErrorMessage(err))
}
