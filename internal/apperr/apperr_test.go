package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	require.Equal(t, KindMalformed, KindOf(New(KindMalformed, "missing field")))
	require.Equal(t, KindInternal, KindOf(errors.New("plain")))
	require.Equal(t, KindInternal, KindOf(nil))
}

func TestKindOf_SurvivesWrapping(t *testing.T) {
	base := New(KindTransient, "status fetch: %v", errors.New("timeout"))
	wrapped := fmt.Errorf("handle webhook: %w", base)

	require.True(t, IsTransient(wrapped))
	require.False(t, IsMalformed(wrapped))
}

func TestUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := Wrap(KindAuth, inner)
	require.ErrorIs(t, err, inner)
}
