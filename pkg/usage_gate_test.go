package pkg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestUsageGateDailyLimit(t *testing.T) {
	gate := NewUsageGate()

	require.True(t, gate.CanUseToday())
	require.Equal(t, DailyUsageLimit, gate.RemainingToday())

	for i := 0; i < DailyUsageLimit; i++ {
		gate.RecordUsage()
	}

	require.False(t, gate.CanUseToday())
	require.Equal(t, 0, gate.RemainingToday())

	// Extra records must not push remaining below zero
	gate.RecordUsage()
	require.Equal(t, 0, gate.RemainingToday())
}

func TestUsageGateRollsOverAtMidnight(t *testing.T) {
	current := time.Date(2025, 6, 1, 23, 50, 0, 0, time.UTC)
	gate := NewUsageGate()
	gate.now = func() time.Time { return current }

	for i := 0; i < DailyUsageLimit; i++ {
		gate.RecordUsage()
	}
	require.False(t, gate.CanUseToday())

	current = current.Add(time.Hour)
	require.True(t, gate.CanUseToday())
	require.Equal(t, DailyUsageLimit, gate.RemainingToday())
}

func TestUsageGateReset(t *testing.T) {
	gate := NewUsageGate()
	gate.RecordUsage()
	gate.Reset()
	require.Equal(t, DailyUsageLimit, gate.RemainingToday())
}
