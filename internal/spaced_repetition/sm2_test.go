package spaced_repetition

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/flashdeck/internal/apperr"
	"github.com/example/flashdeck/pkg/models"
)

var reviewTime = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func TestProcess_NewStatePerfectRecall(t *testing.T) {
	sm := NewSM2()

	state, err := sm.Process(nil, 5, 2.0, reviewTime)
	require.NoError(t, err)

	assert.InDelta(t, 2.6, state.EaseFactor, 1e-9)
	assert.Equal(t, 6, state.IntervalDays)
	assert.Equal(t, 1, state.Streak)
	assert.Equal(t, 1, state.CorrectAttempts)
	assert.Equal(t, 0, state.IncorrectAttempts)
	assert.Equal(t, 2.0, state.AverageResponseTime)
	require.NotNil(t, state.LastReviewedAt)
	require.NotNil(t, state.NextReviewAt)
	assert.Equal(t, reviewTime, *state.LastReviewedAt)
	assert.Equal(t, reviewTime.AddDate(0, 0, 6), *state.NextReviewAt)
}

func TestProcess_FailAfterPass(t *testing.T) {
	sm := NewSM2()
	state, err := sm.Process(nil, 5, 2.0, reviewTime)
	require.NoError(t, err)

	later := reviewTime.Add(2 * time.Hour)
	state, err = sm.Process(state, 2, 3.0, later)
	require.NoError(t, err)

	assert.Equal(t, 0, state.Streak)
	assert.Equal(t, 1, state.IntervalDays)
	assert.Equal(t, 1, state.IncorrectAttempts)
	assert.Equal(t, 1, state.CorrectAttempts)
	assert.Equal(t, 2.5, state.AverageResponseTime)
	assert.InDelta(t, 2.28, state.EaseFactor, 1e-9)
	assert.Equal(t, later.AddDate(0, 0, 1), *state.NextReviewAt)
}

func TestProcess_EaseFactorNeverBelowFloor(t *testing.T) {
	sm := NewSM2()
	for q := 0; q <= 5; q++ {
		state := models.NewCardReviewState(1, 1)
		for i := 0; i < 25; i++ {
			var err error
			state, err = sm.Process(state, q, 1, reviewTime)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, state.EaseFactor, models.MinEaseFactor, "quality %d review %d", q, i)
			assert.GreaterOrEqual(t, state.IntervalDays, 1)
			assert.GreaterOrEqual(t, state.Streak, 0)
		}
	}

	state := &models.CardReviewState{EaseFactor: 1.35, IntervalDays: 1}
	state, err := sm.Process(state, 0, 1, reviewTime)
	require.NoError(t, err)
	assert.Equal(t, models.MinEaseFactor, state.EaseFactor)
}

func TestProcess_StreakGrowsUntilFailure(t *testing.T) {
	sm := NewSM2()
	grades := []int{3, 4, 5, 5, 1, 3, 4, 0, 0, 5}
	var state *models.CardReviewState
	prev := 0
	for i, q := range grades {
		var err error
		state, err = sm.Process(state, q, 1.5, reviewTime.Add(time.Duration(i)*time.Hour))
		require.NoError(t, err)
		if q >= 3 {
			assert.Equal(t, prev+1, state.Streak, "review %d", i)
		} else {
			assert.Equal(t, 0, state.Streak, "review %d", i)
		}
		prev = state.Streak
	}
	assert.Equal(t, 7, state.CorrectAttempts)
	assert.Equal(t, 3, state.IncorrectAttempts)
}

func TestProcess_IntervalCollapsesFromSixToOne(t *testing.T) {
	sm := NewSM2()
	var state *models.CardReviewState
	var got []int
	for i := 0; i < 5; i++ {
		var err error
		state, err = sm.Process(state, 5, 1, reviewTime)
		require.NoError(t, err)
		got = append(got, state.IntervalDays)
	}
	assert.Equal(t, []int{6, 1, 6, 1, 6}, got)
}

func TestNextInterval(t *testing.T) {
	sm := NewSM2()
	tests := []struct {
		name     string
		interval int
		ef       float64
		quality  int
		want     int
	}{
		{"fail resets", 26, 2.5, 2, 1},
		{"first pass", 1, 2.6, 3, 6},
		{"second pass collapses", 6, 2.6, 5, 1},
		{"grows by ease factor", 10, 2.6, 5, 26},
		{"half rounds to even", 5, 2.5, 4, 12},
		{"half rounds up to even", 3, 2.5, 4, 8},
		{"zero interval clamps", 0, 2.5, 5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sm.NextInterval(tt.interval, tt.ef, tt.quality))
		})
	}
}

func TestNextEaseFactor(t *testing.T) {
	sm := NewSM2()
	want := map[int]float64{5: 2.6, 4: 2.5, 3: 2.36, 2: 2.18, 1: 1.96, 0: 1.7}
	for q, ef := range want {
		assert.InDelta(t, ef, sm.NextEaseFactor(2.5, q), 1e-9, "quality %d", q)
	}
}

func TestProcess_NotIdempotent(t *testing.T) {
	sm := NewSM2()
	state, err := sm.Process(nil, 4, 2, reviewTime)
	require.NoError(t, err)
	first := *state.NextReviewAt
	firstInterval := state.IntervalDays

	state, err = sm.Process(state, 4, 2, reviewTime)
	require.NoError(t, err)
	assert.NotEqual(t, firstInterval, state.IntervalDays)
	assert.NotEqual(t, first, *state.NextReviewAt)
	assert.Equal(t, 2, state.CorrectAttempts)
}

func TestProcess_ResponseTimeIsTwoSampleAverage(t *testing.T) {
	sm := NewSM2()
	var state *models.CardReviewState
	for _, rt := range []float64{4, 2, 8} {
		var err error
		state, err = sm.Process(state, 4, rt, reviewTime)
		require.NoError(t, err)
	}
	// (4+2)/2 = 3, then (3+8)/2
	assert.Equal(t, 5.5, state.AverageResponseTime)
}

func TestProcess_RejectsInvalidInputWithoutMutation(t *testing.T) {
	sm := NewSM2()
	tests := []struct {
		name         string
		quality      int
		responseTime float64
		field        string
	}{
		{"quality below range", -1, 1, "quality"},
		{"quality above range", 6, 1, "quality"},
		{"negative response time", 3, -0.5, "response_time"},
		{"NaN response time", 3, math.NaN(), "response_time"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := models.NewCardReviewState(3, 4)
			before := *state

			got, err := sm.Process(state, tt.quality, tt.responseTime, reviewTime)
			var ve *apperr.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Same(t, state, got)
			assert.Equal(t, before, *state)
		})
	}
}

func TestProcess_MasteryIsStickyAndNeedsStrongFinish(t *testing.T) {
	sm := NewSM2()
	var state *models.CardReviewState
	for i, q := range []int{5, 5, 5, 5, 3} {
		var err error
		state, err = sm.Process(state, q, 1, reviewTime.AddDate(0, 0, i))
		require.NoError(t, err)
	}
	assert.Equal(t, 5, state.Streak)
	assert.Nil(t, state.MasteredAt, "fifth pass graded 3 should not master")

	masteredOn := reviewTime.AddDate(0, 0, 5)
	state, err := sm.Process(state, 4, 1, masteredOn)
	require.NoError(t, err)
	require.NotNil(t, state.MasteredAt)
	assert.Equal(t, masteredOn, *state.MasteredAt)

	state, err = sm.Process(state, 0, 1, masteredOn.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.True(t, state.IsMastered())
	assert.Equal(t, masteredOn, *state.MasteredAt)
}

func TestIsLevelMastered(t *testing.T) {
	assert.False(t, IsLevelMastered(&models.CardReviewState{}))
	assert.True(t, IsLevelMastered(&models.CardReviewState{CorrectAttempts: 2, IncorrectAttempts: 1}))
	assert.False(t, IsLevelMastered(&models.CardReviewState{CorrectAttempts: 3, IncorrectAttempts: 2}))
}
