package users

import (
	"context"
	"sync"
	"time"
)

type repoMock struct {
	mutex  sync.Mutex
	nextID int
	users  map[int]User
}

func NewRepoMock(initial ...User) *repoMock {
	users := make(map[int]User, len(initial))
	nextID := 1
	for _, u := range initial {
		users[u.ID] = u
		if u.ID >= nextID {
			nextID = u.ID + 1
		}
	}
	return &repoMock{
		nextID: nextID,
		users:  users,
	}
}

func (r *repoMock) Add(_ context.Context, user User) (*User, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, ErrEmailTaken
		}
	}

	user.ID = r.nextID
	user.CreatedAt = time.Now()
	r.nextID++
	r.users[user.ID] = user

	return &user, nil
}

func (r *repoMock) GetByEmail(_ context.Context, email string) (*User, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *repoMock) GetByID(_ context.Context, id int) (*User, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (r *repoMock) Update(_ context.Context, user User) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	existing, ok := r.users[user.ID]
	if !ok {
		return ErrUserNotFound
	}
	existing.Name = user.Name
	existing.PasswordHash = user.PasswordHash
	r.users[user.ID] = existing

	return nil
}
