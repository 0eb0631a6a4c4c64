package musclegroups

import "errors"

var ErrMuscleGroupNotFound = errors.New("muscle group not found")

// MuscleGroup is shared reference data, visible to every authenticated
// caller and writable by staff only.
type MuscleGroup struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
