//go:build integration_test || all_tests

package plans

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/internal/db"
	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/internal/users"
	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/internal/workout/exercises"
)

type repoTestSetup struct {
	planRepo     *Repo
	peRepo       *PlanExerciseRepo
	userRepo     *users.Repo
	exerciseRepo *exercises.Repo
	shutdown     func()
}

func testRepoSetup(t *testing.T) *repoTestSetup {
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

	return &repoTestSetup{
		planRepo:     NewRepo(dbPool),
		peRepo:       NewPlanExerciseRepo(dbPool),
		userRepo:     users.NewRepo(dbPool),
		exerciseRepo: exercises.NewRepo(dbPool),
		shutdown:     dbPool.Close,
	}
}

func (s *repoTestSetup) newTestUser(t *testing.T, ctx context.Context) *users.User {
	t.Helper()
	user, err := s.userRepo.Add(ctx, users.User{
		Email:        users.NormalizeEmail(gofakeit.Email()),
		Name:         gofakeit.Name(),
		PasswordHash: "not-a-real-hash",
		IsActive:     true,
	})
	require.NoError(t, err)
	return user
}

func TestRepo_OwnerScopedCRUD(t *testing.T) {
	s := testRepoSetup(t)
	defer s.shutdown()

	ctx := context.Background()
	owner := s.newTestUser(t, ctx)
	other := s.newTestUser(t, ctx)

	duration := 45
	added, err := s.planRepo.Add(ctx, WorkoutPlan{
		UserID:                    owner.ID,
		Name:                      "Leg Day",
		Frequency:                 3,
		Goal:                      "Stronger legs",
		DurationPerSessionMinutes: &duration,
	})
	require.NoError(t, err)
	defer func() {
		_ = s.planRepo.Delete(ctx, added.ID, owner.ID)
	}()

	// owner sees it, the other user does not
	ownerPlans, err := s.planRepo.List(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, ownerPlans, 1)
	require.NotNil(t, ownerPlans[0].DurationPerSessionMinutes)
	assert.Equal(t, 45, *ownerPlans[0].DurationPerSessionMinutes)

	otherPlans, err := s.planRepo.List(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, otherPlans)

	_, err = s.planRepo.Get(ctx, added.ID, other.ID)
	assert.ErrorIs(t, err, ErrPlanNotFound)

	foreign := *added
	foreign.UserID = other.ID
	assert.ErrorIs(t, s.planRepo.Update(ctx, foreign), ErrPlanNotFound)
	assert.ErrorIs(t, s.planRepo.Delete(ctx, added.ID, other.ID), ErrPlanNotFound)

	added.Frequency = 5
	require.NoError(t, s.planRepo.Update(ctx, *added))
	updated, err := s.planRepo.Get(ctx, added.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Frequency)
}

func TestPlanExerciseRepo_OwnershipThroughPlan(t *testing.T) {
	s := testRepoSetup(t)
	defer s.shutdown()

	ctx := context.Background()
	owner := s.newTestUser(t, ctx)
	other := s.newTestUser(t, ctx)

	plan, err := s.planRepo.Add(ctx, WorkoutPlan{
		UserID: owner.ID, Name: "Leg Day", Frequency: 3, Goal: "g",
	})
	require.NoError(t, err)
	defer func() {
		_ = s.planRepo.Delete(ctx, plan.ID, owner.ID)
	}()

	exercise, err := s.exerciseRepo.Add(ctx, exercises.Exercise{
		Name: "Squat", Description: "d", Instructions: "i",
	})
	require.NoError(t, err)
	defer func() {
		_ = s.exerciseRepo.Delete(ctx, exercise.ID)
	}()

	// foreign plan id behaves like a missing one
	_, err = s.peRepo.Add(ctx, WorkoutPlanExercise{
		WorkoutPlanID: plan.ID, ExerciseID: exercise.ID, Repetitions: 10, Sets: 3,
	}, other.ID)
	assert.ErrorIs(t, err, ErrPlanNotFound)

	// unknown exercise id is a validation problem, not absence
	_, err = s.peRepo.Add(ctx, WorkoutPlanExercise{
		WorkoutPlanID: plan.ID, ExerciseID: -1, Repetitions: 10, Sets: 3,
	}, owner.ID)
	assert.ErrorIs(t, err, ErrUnknownExercise)

	added, err := s.peRepo.Add(ctx, WorkoutPlanExercise{
		WorkoutPlanID: plan.ID, ExerciseID: exercise.ID, Repetitions: 10, Sets: 3,
	}, owner.ID)
	require.NoError(t, err)

	_, err = s.peRepo.Get(ctx, added.ID, other.ID)
	assert.ErrorIs(t, err, ErrPlanExerciseNotFound)

	ownerList, err := s.peRepo.List(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, ownerList, 1)

	otherList, err := s.peRepo.List(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, otherList)

	added.Sets = 4
	require.NoError(t, s.peRepo.Update(ctx, *added, owner.ID))
	assert.ErrorIs(t, s.peRepo.Update(ctx, *added, other.ID), ErrPlanNotFound)

	assert.ErrorIs(t, s.peRepo.Delete(ctx, added.ID, other.ID), ErrPlanExerciseNotFound)
	require.NoError(t, s.peRepo.Delete(ctx, added.ID, owner.ID))
}
