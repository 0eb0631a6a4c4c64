package exercises

import "errors"

var (
	ErrExerciseNotFound   = errors.New("exercise not found")
	ErrUnknownMuscleGroup = errors.New("unknown muscle group")
)

// Exercise is shared reference data. TargetMuscles carries muscle group ids
// on writes, TargetMuscleNames is the read-side projection.
type Exercise struct {
	ID                int      `json:"id"`
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Instructions      string   `json:"instructions"`
	TargetMuscles     []int    `json:"target_muscles,omitempty"`
	TargetMuscleNames []string `json:"target_muscle_names"`
}
