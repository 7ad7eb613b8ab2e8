package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sophialabs/catapult/internal/infrastructure/outbound/clock"
)

func TestRealClock_Now(t *testing.T) {
	clk := clock.New()
	before := time.Now()
	got := clk.Now()
	after := time.Now()

	assert.False(t, got.Before(before) || got.After(after), "Now() = %v, want between %v and %v", got, before, after)
	assert.Equal(t, time.UTC, got.Location())
}
