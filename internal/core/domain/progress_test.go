package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDailyProgress_TruncatesToMidnight(t *testing.T) {
	noon := time.Date(2026, 1, 5, 12, 31, 7, 0, time.UTC)
	p := NewDailyProgress("habit-1", noon, 4)

	assert.Equal(t, date(2026, 1, 5), p.Date)
	assert.Equal(t, 4.0, p.Progress)
}

func TestDailyProgress_Validate(t *testing.T) {
	tests := []struct {
		name     string
		progress DailyProgress
		wantErr  bool
	}{
		{"Valid", DailyProgress{HabitID: "h1", Date: date(2026, 1, 5), Progress: 3}, false},
		{"Zero progress is valid", DailyProgress{HabitID: "h1", Date: date(2026, 1, 5)}, false},
		{"Missing habit id", DailyProgress{Date: date(2026, 1, 5), Progress: 3}, true},
		{"Missing date", DailyProgress{HabitID: "h1", Progress: 3}, true},
		{"Negative progress", DailyProgress{HabitID: "h1", Date: date(2026, 1, 5), Progress: -0.5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.progress.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidProgress)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestDailyProgress_CompletedAgainst(t *testing.T) {
	p := &DailyProgress{Progress: 8}

	assert.True(t, p.CompletedAgainst(8))
	assert.True(t, p.CompletedAgainst(5))
	assert.False(t, p.CompletedAgainst(8.1))
}

func TestDailyProgress_Partial(t *testing.T) {
	assert.False(t, (&DailyProgress{Progress: 0}).Partial(8), "nothing logged is not partial")
	assert.True(t, (&DailyProgress{Progress: 0.1}).Partial(8))
	assert.True(t, (&DailyProgress{Progress: 7.9}).Partial(8))
	assert.False(t, (&DailyProgress{Progress: 8}).Partial(8), "meeting the target is not partial")
}
