package auth

import "sync"

// State is one observable snapshot. IsAuthenticated holds exactly when both
// User and Tokens are set.
type State struct {
	User            *User       `json:"user"`
	Tokens          *AuthTokens `json:"tokens"`
	IsAuthenticated bool        `json:"isAuthenticated"`
	IsLoading       bool        `json:"isLoading"`
	Error           string      `json:"error,omitempty"`
	Roles           []Role      `json:"roles"`
}

type Listener func(State)

type subscription struct {
	id int
	fn Listener
}

// StateStore holds the auth State and notifies subscribers synchronously
// after every mutation, in subscription order, outside the lock.
type StateStore struct {
	mu        sync.RWMutex
	state     State
	listeners []subscription
	nextID    int
}

func NewStateStore() *StateStore {
	return &StateStore{state: State{Roles: []Role{}}}
}

func (s *StateStore) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Subscribe calls fn with the current snapshot, then after every change.
func (s *StateStore) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	snap := s.state.clone()
	s.mu.Unlock()

	fn(snap)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.listeners {
				if sub.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// SetAuthenticated sets user, tokens and roles in one transition.
func (s *StateStore) SetAuthenticated(user User, tokens AuthTokens, roles []Role) {
	if roles == nil {
		roles = []Role{}
	}
	s.update(func(st *State) {
		st.User = &user
		st.Tokens = &tokens
		st.IsAuthenticated = true
		st.Roles = cloneRoles(roles)
		st.Error = ""
	})
}

func (s *StateStore) SetUnauthenticated() {
	s.update(func(st *State) {
		st.User = nil
		st.Tokens = nil
		st.IsAuthenticated = false
		st.Roles = []Role{}
		st.Error = ""
	})
}

func (s *StateStore) SetLoading(loading bool) {
	s.update(func(st *State) { st.IsLoading = loading })
}

func (s *StateStore) SetError(msg string) {
	s.update(func(st *State) { st.Error = msg })
}

func (s *StateStore) SetRoles(roles []Role) {
	s.update(func(st *State) { st.Roles = cloneRoles(roles) })
}

// UpdateUser applies fn to the current user. It does nothing when signed out.
func (s *StateStore) UpdateUser(fn func(*User)) {
	s.update(func(st *State) {
		if st.User == nil {
			return
		}
		u := *st.User
		fn(&u)
		st.User = &u
	})
}

func (s *StateStore) Reset() {
	s.update(func(st *State) { *st = State{Roles: []Role{}} })
}

func (s *StateStore) update(mutate func(*State)) {
	s.mu.Lock()
	mutate(&s.state)
	snap := s.state.clone()
	listeners := make([]subscription, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, sub := range listeners {
		sub.fn(snap)
	}
}

func (st State) clone() State {
	out := st
	if st.User != nil {
		u := *st.User
		out.User = &u
	}
	if st.Tokens != nil {
		t := *st.Tokens
		out.Tokens = &t
	}
	out.Roles = cloneRoles(st.Roles)
	return out
}
