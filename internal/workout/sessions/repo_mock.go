package sessions

import (
	"context"
	"sort"
	"sync"
)

type repoMock struct {
	mutex    sync.Mutex
	nextID   int
	sessions map[int]WorkoutSession
	// plan id to owning user id, stands in for the workout_plan table
	planOwners map[int]int
}

func NewRepoMock(planOwners map[int]int, initial ...WorkoutSession) *repoMock {
	sessionsMap := make(map[int]WorkoutSession, len(initial))
	nextID := 1
	for _, session := range initial {
		sessionsMap[session.ID] = session
		if session.ID >= nextID {
			nextID = session.ID + 1
		}
	}
	return &repoMock{
		nextID:     nextID,
		sessions:   sessionsMap,
		planOwners: planOwners,
	}
}

func (r *repoMock) Add(_ context.Context, session WorkoutSession) (*WorkoutSession, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.planOwners[session.WorkoutPlanID] != session.UserID {
		return nil, ErrPlanNotFound
	}

	session.ID = r.nextID
	r.nextID++
	r.sessions[session.ID] = session

	return &session, nil
}

func (r *repoMock) List(_ context.Context, userID int) ([]WorkoutSession, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var sessionsList []WorkoutSession
	for _, session := range r.sessions {
		if session.UserID == userID {
			sessionsList = append(sessionsList, session)
		}
	}
	sort.Slice(sessionsList, func(i, j int) bool {
		return sessionsList[i].ID < sessionsList[j].ID
	})

	return sessionsList, nil
}

func (r *repoMock) Get(_ context.Context, id, userID int) (*WorkoutSession, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	session, ok := r.sessions[id]
	if !ok || session.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

func (r *repoMock) Update(_ context.Context, session WorkoutSession) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.planOwners[session.WorkoutPlanID] != session.UserID {
		return ErrPlanNotFound
	}

	existing, ok := r.sessions[session.ID]
	if !ok || existing.UserID != session.UserID {
		return ErrSessionNotFound
	}
	r.sessions[session.ID] = session

	return nil
}

func (r *repoMock) Delete(_ context.Context, id, userID int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	session, ok := r.sessions[id]
	if !ok || session.UserID != userID {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)

	return nil
}
