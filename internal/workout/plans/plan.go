package plans

import "errors"

var (
	ErrPlanNotFound         = errors.New("workout plan not found")
	ErrPlanExerciseNotFound = errors.New("workout plan exercise not found")
	ErrUnknownExercise      = errors.New("unknown exercise")
)

// WorkoutPlan is owner-scoped: every query filters on the owning user, so
// another user's plan is indistinguishable from an absent one.
type WorkoutPlan struct {
	ID                        int    `json:"id"`
	UserID                    int    `json:"user_id"`
	Name                      string `json:"name"`
	Frequency                 int    `json:"frequency"`
	Goal                      string `json:"goal"`
	DurationPerSessionMinutes *int   `json:"duration_per_session_minutes"`
}

// WorkoutPlanExercise belongs to a plan and is owner-scoped transitively
// through it.
type WorkoutPlanExercise struct {
	ID              int      `json:"id"`
	WorkoutPlanID   int      `json:"workout_plan_id"`
	ExerciseID      int      `json:"exercise_id"`
	Repetitions     int      `json:"repetitions"`
	Sets            int      `json:"sets"`
	DurationMinutes *int     `json:"duration_minutes"`
	Distance        *float64 `json:"distance"`
}
