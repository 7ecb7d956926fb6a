package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItem(t *testing.T) {
	tests := []struct {
		in      string
		id      uint
		qty     int
		wantErr bool
	}{
		{"12", 12, 1, false},
		{"12x3", 12, 3, false},
		{" 7X2 ", 7, 2, false},
		{"x2", 0, 0, true},
		{"0", 0, 0, true},
		{"5x0", 0, 0, true},
		{"burger", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			id, qty, err := parseItem(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, id)
			assert.Equal(t, tt.qty, qty)
		})
	}
}

func TestParsePickup(t *testing.T) {
	now := time.Date(2026, 10, 19, 17, 5, 0, 0, time.UTC)

	got, err := parsePickup("18:30", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 19, 18, 30, 0, 0, time.UTC), got)

	got, err = parsePickup("2026-10-20T12:00:00+02:00", now)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2026, 10, 20, 10, 0, 0, 0, time.UTC)))

	got, err = parsePickup("", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 19, 17, 45, 0, 0, time.UTC), got)

	_, err = parsePickup("", time.Date(2026, 10, 19, 21, 50, 0, 0, time.UTC))
	assert.Error(t, err)

	_, err = parsePickup("half six", now)
	assert.Error(t, err)
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"restaurants", "menu", "slots", "order", "track", "collect", "review"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("api-url"))
	assert.NotNil(t, root.PersistentFlags().Lookup("poll-interval"))
}
