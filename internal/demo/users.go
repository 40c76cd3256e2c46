package demo

import (
	"sort"
	"strconv"
	"sync"
	"time"
)

// User is a directory entry.
type User struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type userStore struct {
	mu     sync.RWMutex
	nextID int
	users  map[int]User
	now    func() time.Time
}

func newUserStore(names ...string) *userStore {
	s := &userStore{nextID: 1, users: make(map[int]User), now: time.Now}
	for _, n := range names {
		s.create(n)
	}
	return s
}

func (s *userStore) create(name string) User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := User{ID: s.nextID, Name: name, CreatedAt: s.now()}
	s.users[u.ID] = u
	s.nextID++
	return u
}

func (s *userStore) get(id int) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	return u, ok
}

func (s *userStore) list() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *userStore) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

func userPath(id int) string {
	return "/users/" + strconv.Itoa(id)
}
