package plans

import (
	"context"
	"sort"
	"sync"
)

type repoMock struct {
	mutex  sync.Mutex
	nextID int
	plans  map[int]WorkoutPlan
}

func NewRepoMock(initial ...WorkoutPlan) *repoMock {
	plansMap := make(map[int]WorkoutPlan, len(initial))
	nextID := 1
	for _, plan := range initial {
		plansMap[plan.ID] = plan
		if plan.ID >= nextID {
			nextID = plan.ID + 1
		}
	}
	return &repoMock{
		nextID: nextID,
		plans:  plansMap,
	}
}

func (r *repoMock) Add(_ context.Context, plan WorkoutPlan) (*WorkoutPlan, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	plan.ID = r.nextID
	r.nextID++
	r.plans[plan.ID] = plan

	return &plan, nil
}

func (r *repoMock) List(_ context.Context, userID int) ([]WorkoutPlan, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var plansList []WorkoutPlan
	for _, plan := range r.plans {
		if plan.UserID == userID {
			plansList = append(plansList, plan)
		}
	}
	sort.Slice(plansList, func(i, j int) bool {
		return plansList[i].ID < plansList[j].ID
	})

	return plansList, nil
}

func (r *repoMock) Get(_ context.Context, id, userID int) (*WorkoutPlan, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	plan, ok := r.plans[id]
	if !ok || plan.UserID != userID {
		return nil, ErrPlanNotFound
	}
	return &plan, nil
}

func (r *repoMock) Update(_ context.Context, plan WorkoutPlan) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	existing, ok := r.plans[plan.ID]
	if !ok || existing.UserID != plan.UserID {
		return ErrPlanNotFound
	}
	r.plans[plan.ID] = plan

	return nil
}

func (r *repoMock) Delete(_ context.Context, id, userID int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	plan, ok := r.plans[id]
	if !ok || plan.UserID != userID {
		return ErrPlanNotFound
	}
	delete(r.plans, id)

	return nil
}

// planExerciseRepoMock shares the plan mock so that ownership checks behave
// like the SQL joins do.
type planExerciseRepoMock struct {
	mutex         sync.Mutex
	nextID        int
	planExercises map[int]WorkoutPlanExercise
	plans         *repoMock
}

func NewPlanExerciseRepoMock(plans *repoMock, initial ...WorkoutPlanExercise) *planExerciseRepoMock {
	planExercises := make(map[int]WorkoutPlanExercise, len(initial))
	nextID := 1
	for _, pe := range initial {
		planExercises[pe.ID] = pe
		if pe.ID >= nextID {
			nextID = pe.ID + 1
		}
	}
	return &planExerciseRepoMock{
		nextID:        nextID,
		planExercises: planExercises,
		plans:         plans,
	}
}

func (r *planExerciseRepoMock) planOwnedBy(planID, userID int) bool {
	_, err := r.plans.Get(context.Background(), planID, userID)
	return err == nil
}

func (r *planExerciseRepoMock) Add(_ context.Context, pe WorkoutPlanExercise, userID int) (*WorkoutPlanExercise, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if !r.planOwnedBy(pe.WorkoutPlanID, userID) {
		return nil, ErrPlanNotFound
	}

	pe.ID = r.nextID
	r.nextID++
	r.planExercises[pe.ID] = pe

	return &pe, nil
}

func (r *planExerciseRepoMock) List(_ context.Context, userID int) ([]WorkoutPlanExercise, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var planExercises []WorkoutPlanExercise
	for _, pe := range r.planExercises {
		if r.planOwnedBy(pe.WorkoutPlanID, userID) {
			planExercises = append(planExercises, pe)
		}
	}
	sort.Slice(planExercises, func(i, j int) bool {
		return planExercises[i].ID < planExercises[j].ID
	})

	return planExercises, nil
}

func (r *planExerciseRepoMock) Get(_ context.Context, id, userID int) (*WorkoutPlanExercise, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	pe, ok := r.planExercises[id]
	if !ok || !r.planOwnedBy(pe.WorkoutPlanID, userID) {
		return nil, ErrPlanExerciseNotFound
	}
	return &pe, nil
}

func (r *planExerciseRepoMock) Update(_ context.Context, pe WorkoutPlanExercise, userID int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if !r.planOwnedBy(pe.WorkoutPlanID, userID) {
		return ErrPlanNotFound
	}

	existing, ok := r.planExercises[pe.ID]
	if !ok || !r.planOwnedBy(existing.WorkoutPlanID, userID) {
		return ErrPlanExerciseNotFound
	}
	r.planExercises[pe.ID] = pe

	return nil
}

func (r *planExerciseRepoMock) Delete(_ context.Context, id, userID int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	pe, ok := r.planExercises[id]
	if !ok || !r.planOwnedBy(pe.WorkoutPlanID, userID) {
		return ErrPlanExerciseNotFound
	}
	delete(r.planExercises, id)

	return nil
}
