package musclegroups

import (
	"context"
	"sort"
	"sync"
)

type repoMock struct {
	mutex  sync.Mutex
	nextID int
	groups map[int]MuscleGroup
}

func NewRepoMock(initial ...MuscleGroup) *repoMock {
	groups := make(map[int]MuscleGroup, len(initial))
	nextID := 1
	for _, mg := range initial {
		groups[mg.ID] = mg
		if mg.ID >= nextID {
			nextID = mg.ID + 1
		}
	}
	return &repoMock{
		nextID: nextID,
		groups: groups,
	}
}

func (r *repoMock) Add(_ context.Context, mg MuscleGroup) (*MuscleGroup, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	mg.ID = r.nextID
	r.nextID++
	r.groups[mg.ID] = mg

	return &mg, nil
}

func (r *repoMock) List(_ context.Context) ([]MuscleGroup, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	groups := make([]MuscleGroup, 0, len(r.groups))
	for _, mg := range r.groups {
		groups = append(groups, mg)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].ID < groups[j].ID
	})

	return groups, nil
}

func (r *repoMock) Get(_ context.Context, id int) (*MuscleGroup, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	mg, ok := r.groups[id]
	if !ok {
		return nil, ErrMuscleGroupNotFound
	}
	return &mg, nil
}

func (r *repoMock) Update(_ context.Context, mg MuscleGroup) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.groups[mg.ID]; !ok {
		return ErrMuscleGroupNotFound
	}
	r.groups[mg.ID] = mg

	return nil
}

func (r *repoMock) Delete(_ context.Context, id int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.groups[id]; !ok {
		return ErrMuscleGroupNotFound
	}
	delete(r.groups, id)

	return nil
}
