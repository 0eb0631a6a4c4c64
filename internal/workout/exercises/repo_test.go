//go:build integration_test || all_tests

package exercises

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/internal/db"
	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/internal/workout/musclegroups"
)

func testRepoSetup(t *testing.T) (*Repo, *musclegroups.Repo, func()) {
	t.Helper()

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		host = "localhost"
	}
	t.Logf("using postgres host: %s", host)

	dbPool, err := db.NewDBPool(timeoutCtx, db.NewDBPoolParams{
		DBHost:         host,
		DBPort:         "5432",
		DBName:         "workout_plans_test",
		TracingEnabled: false,
	})
	require.NoError(t, err)
	require.NoError(t, db.InitSchema(timeoutCtx, dbPool))

	return NewRepo(dbPool), musclegroups.NewRepo(dbPool), func() {
		dbPool.Close()
	}
}

func TestRepo_CRUDWithTargetMuscles(t *testing.T) {
	repo, mgRepo, shutdown := testRepoSetup(t)
	defer shutdown()

	ctx := context.Background()

	quads, err := mgRepo.Add(ctx, musclegroups.MuscleGroup{Name: "Quads"})
	require.NoError(t, err)
	glutes, err := mgRepo.Add(ctx, musclegroups.MuscleGroup{Name: "Glutes"})
	require.NoError(t, err)
	defer func() {
		_ = mgRepo.Delete(ctx, quads.ID)
		_ = mgRepo.Delete(ctx, glutes.ID)
	}()

	added, err := repo.Add(ctx, Exercise{
		Name:          "Squat",
		Description:   "Compound lower body lift",
		Instructions:  "Bar on back, hips below parallel",
		TargetMuscles: []int{quads.ID, glutes.ID},
	})
	require.NoError(t, err)
	require.NotNil(t, added)
	defer func() {
		_ = repo.Delete(ctx, added.ID)
	}()

	assert.ElementsMatch(t, []int{quads.ID, glutes.ID}, added.TargetMuscles)
	assert.ElementsMatch(t, []string{"Quads", "Glutes"}, added.TargetMuscleNames)

	// unknown muscle group id rejected, nothing inserted
	_, err = repo.Add(ctx, Exercise{
		Name:          "Ghost",
		Description:   "d",
		Instructions:  "i",
		TargetMuscles: []int{-1},
	})
	assert.ErrorIs(t, err, ErrUnknownMuscleGroup)

	// wholesale replace of the association set
	added.TargetMuscles = []int{glutes.ID}
	require.NoError(t, repo.Update(ctx, *added, true))

	updated, err := repo.Get(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{glutes.ID}, updated.TargetMuscles)
	assert.Equal(t, []string{"Glutes"}, updated.TargetMuscleNames)

	// scalar-only update keeps associations
	updated.Name = "Back Squat"
	require.NoError(t, repo.Update(ctx, *updated, false))
	reloaded, err := repo.Get(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, "Back Squat", reloaded.Name)
	assert.Equal(t, []int{glutes.ID}, reloaded.TargetMuscles)

	_, err = repo.Get(ctx, -1)
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}
