package chatutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConversationID(t *testing.T) {
	t.Run("symmetric for any pair", func(t *testing.T) {
		pairs := [][2]string{
			{"alice123", "bob456"},
			{"bob456", "alice123"},
			{"z", "a"},
			{"0af31c9e-1111-4c6e-9f2a-aaaaaaaaaaaa", "ff0031c9-2222-4c6e-9f2a-bbbbbbbbbbbb"},
		}
		for _, p := range pairs {
			assert.Equal(t, ConversationID(p[0], p[1]), ConversationID(p[1], p[0]))
		}
	})

	t.Run("lexicographically smaller id goes first", func(t *testing.T) {
		assert.Equal(t, "alice123_bob456", ConversationID("alice123", "bob456"))
		assert.Equal(t, "alice123_bob456", ConversationID("bob456", "alice123"))
	})

	t.Run("self pair is defined", func(t *testing.T) {
		assert.Equal(t, "alice123_alice123", ConversationID("alice123", "alice123"))
	})

	t.Run("distinct pairs map to distinct ids", func(t *testing.T) {
		assert.NotEqual(t, ConversationID("a", "b"), ConversationID("a", "c"))
		assert.NotEqual(t, ConversationID("a", "b"), ConversationID("b", "c"))
	})
}

func TestIsOnline(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("nil last online is offline", func(t *testing.T) {
		assert.False(t, IsOnline(nil, now))
	})

	t.Run("inside window is online", func(t *testing.T) {
		last := now.Add(-(4*time.Minute + 59*time.Second))
		assert.True(t, IsOnline(&last, now))
	})

	t.Run("outside window is offline", func(t *testing.T) {
		last := now.Add(-(5*time.Minute + 1*time.Second))
		assert.False(t, IsOnline(&last, now))
	})

	t.Run("exactly at window boundary is offline", func(t *testing.T) {
		last := now.Add(-5 * time.Minute)
		assert.False(t, IsOnline(&last, now))
	})
}

func TestFormatMessageTime(t *testing.T) {
	assert.Equal(t, "", FormatMessageTime(nil))

	ts := time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "2:30 PM", FormatMessageTime(&ts))
}

func TestFormatLastSeen(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		last *time.Time
		want string
	}{
		{"never", nil, "Never"},
		{"just now", tp(now.Add(-30 * time.Second)), "Just now"},
		{"one minute", tp(now.Add(-90 * time.Second)), "1 minute ago"},
		{"minutes", tp(now.Add(-10 * time.Minute)), "10 minutes ago"},
		{"one hour", tp(now.Add(-65 * time.Minute)), "1 hour ago"},
		{"hours", tp(now.Add(-5 * time.Hour)), "5 hours ago"},
		{"yesterday", tp(now.Add(-30 * time.Hour)), "Yesterday"},
		{"days", tp(now.Add(-3 * 24 * time.Hour)), "3 days ago"},
		{"date for older", tp(now.Add(-10 * 24 * time.Hour)), "5/31/2025"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatLastSeen(tc.last, now))
		})
	}
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "JD", Initials("John Doe"))
	assert.Equal(t, "M", Initials("Madonna"))
	assert.Equal(t, "?", Initials(""))
	assert.Equal(t, "?", Initials("   "))
	assert.Equal(t, "JS", Initials("john ronald smith"))
}

func tp(t time.Time) *time.Time {
	return &t
}
