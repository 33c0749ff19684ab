package receipt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"amo_checkbox/internal/config"
	"amo_checkbox/internal/domain/service/receipt"
)

func TestNewWindow(t *testing.T) {
	t.Run("неизвестная таймзона", func(t *testing.T) {
		_, err := receipt.NewWindow(config.Window{Timezone: "Mars/Olympus", OpenAt: "00:01", CloseAt: "23:45"})
		require.Error(t, err)
	})

	t.Run("кривое время открытия", func(t *testing.T) {
		_, err := receipt.NewWindow(config.Window{Timezone: "Europe/Kiev", OpenAt: "25:99", CloseAt: "23:45"})
		require.Error(t, err)
	})
}

func TestWindow_Allowed(t *testing.T) {
	window, err := receipt.NewWindow(config.Window{
		Timezone: "Europe/Kiev",
		OpenAt:   "00:01",
		CloseAt:  "23:45",
	})
	require.NoError(t, err)

	at := func(hour, minute int) time.Time {
		return time.Date(2025, time.March, 10, hour, minute, 30, 0, window.Location())
	}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{name: "полдень разрешён", now: at(12, 0), want: true},
		{name: "открытие включительно", now: at(0, 1), want: true},
		{name: "минута до закрытия разрешена", now: at(23, 44), want: true},
		{name: "закрытие исключительно", now: at(23, 45), want: false},
		{name: "после закрытия запрещено", now: at(23, 59), want: false},
		{name: "полночь до открытия запрещена", now: at(0, 0), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, window.Allowed(tt.now))
		})
	}
}

func TestWindow_Allowed_ConvertsTimezone(t *testing.T) {
	window, err := receipt.NewWindow(config.Window{
		Timezone: "Europe/Kiev",
		OpenAt:   "00:01",
		CloseAt:  "23:45",
	})
	require.NoError(t, err)

	// 21:50 UTC это 23:50 по Киеву (зимнее время), окно уже закрыто.
	utc := time.Date(2025, time.January, 10, 21, 50, 0, 0, time.UTC)
	require.False(t, window.Allowed(utc))

	// А 10:00 UTC это 12:00 по Киеву.
	require.True(t, window.Allowed(time.Date(2025, time.January, 10, 10, 0, 0, 0, time.UTC)))
}
