package spaced_repetition

import (
	"math"
	"time"

	"github.com/example/flashdeck/internal/apperr"
	"github.com/example/flashdeck/pkg/models"
)

// QualityResponse represents the quality of response in SM-2
type QualityResponse int

const (
	// Complete blackout, unable to recall
	QualityBlackout QualityResponse = 0
	// Incorrect response but remembered upon seeing the correct answer
	QualityIncorrect QualityResponse = 1
	// Incorrect response but the correct answer felt familiar
	QualityIncorrectFamiliar QualityResponse = 2
	// Correct response but required significant effort
	QualityCorrectDifficult QualityResponse = 3
	// Correct response after some hesitation
	QualityCorrectHesitation QualityResponse = 4
	// Perfect response with no hesitation
	QualityPerfect QualityResponse = 5
)

// SM2 implements the SuperMemo-2 variant used to schedule flashcard reviews
type SM2 struct {
	// Grades at or above this count as a pass
	PassThreshold QualityResponse
	// Consecutive passes needed before a card counts as mastered
	MasteryStreak int
	// Minimum grade of the review that completes mastery
	MasteryQuality QualityResponse
}

// NewSM2 creates a new SM2 with the default settings
func NewSM2() *SM2 {
	return &SM2{
		PassThreshold:  QualityCorrectDifficult,
		MasteryStreak:  5,
		MasteryQuality: QualityCorrectHesitation,
	}
}

// Validate checks grading input without touching any state
func (sm *SM2) Validate(quality int, responseTime float64) error {
	if quality < int(QualityBlackout) || quality > int(QualityPerfect) {
		return apperr.Invalid("quality", "must be between %d and %d, got %d", QualityBlackout, QualityPerfect, quality)
	}
	if math.IsNaN(responseTime) || math.IsInf(responseTime, 0) || responseTime < 0 {
		return apperr.Invalid("response_time", "must be a non-negative number of seconds, got %v", responseTime)
	}
	return nil
}

// Process applies one graded review to state and returns it. A nil state is
// replaced by a fresh one. Invalid input returns a ValidationError and leaves
// state untouched.
func (sm *SM2) Process(state *models.CardReviewState, quality int, responseTime float64, now time.Time) (*models.CardReviewState, error) {
	if err := sm.Validate(quality, responseTime); err != nil {
		return state, err
	}
	if state == nil {
		state = models.NewCardReviewState(0, 0)
	}

	// Zero means no response time was recorded yet. Later samples are averaged
	// with the previous value only, not with the full history.
	if state.AverageResponseTime == 0 {
		state.AverageResponseTime = responseTime
	} else {
		state.AverageResponseTime = (state.AverageResponseTime + responseTime) / 2
	}

	// The updated ease factor is the one the interval step multiplies by
	state.EaseFactor = sm.NextEaseFactor(state.EaseFactor, quality)
	state.IntervalDays = sm.NextInterval(state.IntervalDays, state.EaseFactor, quality)

	if QualityResponse(quality) >= sm.PassThreshold {
		state.Streak++
		state.CorrectAttempts++
	} else {
		state.Streak = 0
		state.IncorrectAttempts++
	}

	reviewedAt := now
	nextReview := now.AddDate(0, 0, state.IntervalDays)
	state.LastReviewedAt = &reviewedAt
	state.NextReviewAt = &nextReview

	if state.MasteredAt == nil && sm.reachedMastery(state, quality) {
		masteredAt := now
		state.MasteredAt = &masteredAt
	}
	return state, nil
}

// NextEaseFactor computes EF' = EF + (0.1 - (5-q) * (0.08 + (5-q) * 0.02)), floored at 1.3
func (sm *SM2) NextEaseFactor(easeFactor float64, quality int) float64 {
	miss := float64(int(QualityPerfect) - quality)
	newEF := easeFactor + (0.1 - miss*(0.08+miss*0.02))
	if newEF < models.MinEaseFactor {
		newEF = models.MinEaseFactor
	}
	return newEF
}

// NextInterval returns the interval in days after a review graded quality.
// A pass moves 1 to 6 and 6 back to 1; any other interval grows by the ease
// factor, rounded half to even.
func (sm *SM2) NextInterval(interval int, easeFactor float64, quality int) int {
	if QualityResponse(quality) < sm.PassThreshold {
		return 1
	}
	var next int
	switch interval {
	case 1:
		next = 6
	case 6:
		next = 1
	default:
		next = int(math.RoundToEven(float64(interval) * easeFactor))
	}
	if next < 1 {
		next = 1
	}
	return next
}

func (sm *SM2) reachedMastery(state *models.CardReviewState, quality int) bool {
	return state.Streak >= sm.MasteryStreak && QualityResponse(quality) >= sm.MasteryQuality
}

// IsLevelMastered is the looser rule used for level distribution reports:
// at least one correct answer and at least twice as many correct as incorrect.
func IsLevelMastered(state *models.CardReviewState) bool {
	return state.CorrectAttempts > 0 && state.CorrectAttempts >= state.IncorrectAttempts*2
}
