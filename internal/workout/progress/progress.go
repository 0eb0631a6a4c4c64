package progress

import (
	"errors"

	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/pkg"
)

var (
	ErrProgressNotFound = errors.New("progress entry not found")
	ErrDuplicateDate    = errors.New("progress entry for date already exists")
)

// Progress is a body progress record, at most one per user per date.
type Progress struct {
	ID     int      `json:"id"`
	UserID int      `json:"user_id"`
	Date   pkg.Date `json:"date"`
	Weight *float64 `json:"weight"`
	Notes  *string  `json:"notes"`
}
