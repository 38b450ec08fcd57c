package utils

import (
	"context"
	"testing"
	"time"

	"github.com/ekant1999/StrategyEvolve/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
	assert.Equal(t, "héé...", Truncate("hééllo", 3))
}

func TestSafeText(t *testing.T) {
	assert.Equal(t, "AT&T up 3%", SafeText("AT&amp;T up 3%"))
	assert.Equal(t, "ok", CleanToValidUTF8("o\xffk"))
}

func TestNextWeekday(t *testing.T) {
	friday := time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Monday, NextWeekday(friday).Weekday())
	assert.Equal(t, 6, NextWeekday(friday).Day())

	monday := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 7, NextWeekday(monday).Day())
}

func TestDateOnly(t *testing.T) {
	in := time.Date(2024, 5, 3, 17, 45, 0, 0, time.FixedZone("X", 7*3600))
	assert.Equal(t, time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC), DateOnly(in))
}

func TestShouldContinue(t *testing.T) {
	log := logger.NewNop()
	assert.True(t, ShouldContinue(context.Background(), log))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, ShouldContinue(ctx, log))
}
