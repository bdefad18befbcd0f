package clock

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/yeargoals/internal/apperr"
)

func TestToday_UsesClockLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	c := &Fixed{T: time.Date(2026, 3, 10, 2, 30, 0, 0, time.UTC), Loc: ny}
	assert.Equal(t, "2026-03-09", Today(c))

	c.Loc = nil
	assert.Equal(t, "2026-03-10", Today(c))
}

func TestNewSystem(t *testing.T) {
	s, err := NewSystem("")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, s.Location())

	_, err = NewSystem("Not/AZone")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid", input: "2026-01-31"},
		{name: "leap day", input: "2028-02-29"},
		{name: "bad month", input: "2026-13-01", wantErr: true},
		{name: "wrong layout", input: "01/02/2026", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDate(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, apperr.ErrValidation))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestAddDays_CrossesMonthAndYear(t *testing.T) {
	got, err := AddDays("2026-01-01", -1)
	require.NoError(t, err)
	assert.Equal(t, "2025-12-31", got)

	got, err = AddDays("2026-02-28", 1)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", got)
}
