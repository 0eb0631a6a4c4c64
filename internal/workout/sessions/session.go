package sessions

import (
	"errors"

	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/pkg"
)

var (
	ErrSessionNotFound = errors.New("workout session not found")
	ErrPlanNotFound    = errors.New("workout plan not found")
)

// WorkoutSession is a logged occurrence of a workout plan on a given date.
type WorkoutSession struct {
	ID            int      `json:"id"`
	UserID        int      `json:"user_id"`
	WorkoutPlanID int      `json:"workout_plan_id"`
	Date          pkg.Date `json:"date"`
	Completed     bool     `json:"completed"`
}
