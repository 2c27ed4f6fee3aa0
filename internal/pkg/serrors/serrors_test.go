package serrors_test

import (
	"errors"
	"fmt"
	"testing"

	"job-scraping/internal/pkg/serrors"

	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	base := errors.New("connection reset")

	require.Equal(t, "linkedin attempt 2", serrors.With(serrors.ErrNetwork, "linkedin attempt %d", 2).Error())
	require.Equal(t, "fetch: connection reset", serrors.Wrap(serrors.ErrNetwork, base, "fetch").Error())
	require.Equal(t, "TRANSPORT", serrors.KindOnly(serrors.ErrTransport).Error())
}

func TestIsMatchesKindAndCause(t *testing.T) {
	base := errors.New("i/o timeout")
	err := fmt.Errorf("outer: %w", serrors.Wrap(serrors.ErrRenderTimeout, base, "render"))

	require.ErrorIs(t, err, serrors.ErrRenderTimeout)
	require.ErrorIs(t, err, base)
	require.NotErrorIs(t, err, serrors.ErrNetwork)
}

func TestKindOf(t *testing.T) {
	require.Equal(t, serrors.ErrParse, serrors.KindOf(serrors.With(serrors.ErrParse, "card 3")))
	require.Equal(t, serrors.ErrTransport, serrors.KindOf(fmt.Errorf("send: %w", serrors.ErrTransport)))
	require.Nil(t, serrors.KindOf(errors.New("plain")))
}

func TestIsRetryable(t *testing.T) {
	require.True(t, serrors.IsRetryable(serrors.KindOnly(serrors.ErrNetwork)))
	require.True(t, serrors.IsRetryable(serrors.KindOnly(serrors.ErrRenderTimeout)))
	require.False(t, serrors.IsRetryable(serrors.KindOnly(serrors.ErrParse)))
	require.False(t, serrors.IsRetryable(errors.New("plain")))
}
