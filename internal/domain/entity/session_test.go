package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSession_DefaultState(t *testing.T) {
	s := NewSession(10)
	require.Equal(t, StateAwaitingUpload, s.State)
	require.Equal(t, int64(10), s.ChatID)

	s.SetState(StateProcessing)
	require.Equal(t, StateProcessing, s.State)
}
