package gemini_test

import (
	"context"
	"testing"

	"github.com/fwojciec/policylens"
	"github.com/fwojciec/policylens/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenCounter_UnknownModel(t *testing.T) {
	t.Parallel()

	_, err := gemini.NewTokenCounter("not-a-gemini-model")

	assert.Equal(t, policylens.EINVALID, policylens.ErrorCode(err))
}

func TestTokenCounter_CountTokens(t *testing.T) {
	t.Parallel()

	tc, err := gemini.NewTokenCounter("gemini-2.0-flash")
	require.NoError(t, err)

	t.Run("empty policy has no tokens", func(t *testing.T) {
		t.Parallel()

		count, err := tc.CountTokens(context.Background(), "")

		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("longer policies count more tokens", func(t *testing.T) {
		t.Parallel()

		short, err := tc.CountTokens(context.Background(), "We collect your email.")
		require.NoError(t, err)
		long, err := tc.CountTokens(context.Background(),
			"We collect your email. We share it with advertising partners and retain it for five years after you close your account.")
		require.NoError(t, err)

		assert.Positive(t, short)
		assert.Greater(t, long, short)
	})

	t.Run("stops when cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := tc.CountTokens(ctx, "We collect your email.")

		assert.Equal(t, policylens.ECANCELED, policylens.ErrorCode(err))
	})
}
