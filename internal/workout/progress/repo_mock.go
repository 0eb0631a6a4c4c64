package progress

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

type repoMock struct {
	mutex   sync.Mutex
	nextID  int
	entries map[int]Progress
}

func NewRepoMock(initial ...Progress) *repoMock {
	entries := make(map[int]Progress, len(initial))
	nextID := 1
	for _, entry := range initial {
		entries[entry.ID] = entry
		if entry.ID >= nextID {
			nextID = entry.ID + 1
		}
	}
	return &repoMock{
		nextID:  nextID,
		entries: entries,
	}
}

func (r *repoMock) dateTaken(p Progress) bool {
	for _, existing := range r.entries {
		if existing.ID != p.ID && existing.UserID == p.UserID && existing.Date.Equal(p.Date) {
			return true
		}
	}
	return false
}

func (r *repoMock) Add(_ context.Context, p Progress) (*Progress, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.dateTaken(p) {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateDate, p.Date)
	}

	p.ID = r.nextID
	r.nextID++
	r.entries[p.ID] = p

	return &p, nil
}

func (r *repoMock) List(_ context.Context, userID int) ([]Progress, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var entries []Progress
	for _, entry := range r.entries {
		if entry.UserID == userID {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date.Time)
	})

	return entries, nil
}

func (r *repoMock) Get(_ context.Context, id, userID int) (*Progress, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	entry, ok := r.entries[id]
	if !ok || entry.UserID != userID {
		return nil, ErrProgressNotFound
	}
	return &entry, nil
}

func (r *repoMock) Update(_ context.Context, p Progress) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.dateTaken(p) {
		return fmt.Errorf("%w: %s", ErrDuplicateDate, p.Date)
	}

	existing, ok := r.entries[p.ID]
	if !ok || existing.UserID != p.UserID {
		return ErrProgressNotFound
	}
	r.entries[p.ID] = p

	return nil
}

func (r *repoMock) Delete(_ context.Context, id, userID int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	entry, ok := r.entries[id]
	if !ok || entry.UserID != userID {
		return ErrProgressNotFound
	}
	delete(r.entries, id)

	return nil
}
