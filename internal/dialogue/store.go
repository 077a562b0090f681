package dialogue

import "sync"

// StateStore keeps one ConversationState per user. Work for a single user is
// serialized; different users proceed in parallel.
type StateStore struct {
	mu    sync.Mutex
	slots map[int64]*slot
}

type slot struct {
	mu    sync.Mutex
	refs  int
	state ConversationState
}

func NewStateStore() *StateStore {
	return &StateStore{slots: make(map[int64]*slot)}
}

// With runs fn while holding the user's lock. Slots are created lazily and
// dropped once nobody is waiting on them and the state is idle.
func (s *StateStore) With(userID int64, fn func(st *ConversationState)) {
	sl := s.acquire(userID)
	defer s.release(userID, sl)
	fn(&sl.state)
}

// Get returns a snapshot of the user's state.
func (s *StateStore) Get(userID int64) ConversationState {
	var out ConversationState
	s.With(userID, func(st *ConversationState) {
		out = *st
		if st.Pending != nil {
			p := *st.Pending
			out.Pending = &p
		}
	})
	return out
}

// Len reports how many users currently hold non-idle state or a lock.
func (s *StateStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots)
}

func (s *StateStore) acquire(userID int64) *slot {
	s.mu.Lock()
	sl, ok := s.slots[userID]
	if !ok {
		sl = &slot{}
		s.slots[userID] = sl
	}
	sl.refs++
	s.mu.Unlock()

	sl.mu.Lock()
	return sl
}

// release decides on deletion under s.mu: once refs drops to zero nobody else
// can hold the slot, so its state is final.
func (s *StateStore) release(userID int64, sl *slot) {
	sl.mu.Unlock()

	s.mu.Lock()
	sl.refs--
	if sl.refs == 0 && sl.state.idle() {
		delete(s.slots, userID)
	}
	s.mu.Unlock()
}
