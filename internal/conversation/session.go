package conversation

import (
	"sync"
	"time"

	"github.com/Skotchmaster/orderbot/internal/cart"
	"github.com/Skotchmaster/orderbot/internal/domain"
)

type State int

const (
	Idle State = iota
	AwaitingName
	AwaitingLocation
	SelectingProducts
	AwaitingQuantity
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingName:
		return "awaiting_name"
	case AwaitingLocation:
		return "awaiting_location"
	case SelectingProducts:
		return "selecting_products"
	case AwaitingQuantity:
		return "awaiting_quantity"
	default:
		return "unknown"
	}
}

// Session is the state of one in-progress order. It belongs to exactly one
// chat and is only touched while that chat's slot is held.
type Session struct {
	ChatID   int64
	State    State
	Name     string
	Handle   string
	Location domain.Location

	// Catalog is the product snapshot loaded when the location was chosen.
	Catalog []domain.Product
	Cart    *cart.Cart

	PendingProductID int64
}

func newSession(chatID int64) *Session {
	return &Session{ChatID: chatID, State: AwaitingName, Cart: cart.New()}
}

func (s *Session) product(id int64) (domain.Product, bool) {
	return domain.FindProduct(s.Catalog, id)
}

type slot struct {
	mu      sync.Mutex
	session *Session
	touched time.Time
	refs    int
}

// SessionStore owns every live session, keyed by chat id. Access to one
// chat is exclusive; different chats never contend beyond a short map lookup.
type SessionStore struct {
	mu    sync.Mutex
	slots map[int64]*slot
	ttl   time.Duration
}

// NewSessionStore creates a store whose sessions expire after ttl without
// activity. A zero ttl keeps sessions until they are confirmed or cancelled.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{slots: make(map[int64]*slot), ttl: ttl}
}

func (s *SessionStore) acquire(chatID int64, now time.Time) *slot {
	s.mu.Lock()
	sl, ok := s.slots[chatID]
	if !ok {
		sl = &slot{}
		s.slots[chatID] = sl
	}
	sl.refs++
	s.mu.Unlock()

	sl.mu.Lock()
	if s.expired(sl, now) {
		sl.session = nil
	}
	return sl
}

func (s *SessionStore) release(chatID int64, sl *slot, now time.Time) {
	sl.touched = now
	sl.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	sl.refs--
	if sl.refs == 0 && sl.session == nil {
		delete(s.slots, chatID)
	}
}

func (s *SessionStore) expired(sl *slot, now time.Time) bool {
	return s.ttl > 0 && sl.session != nil && now.Sub(sl.touched) > s.ttl
}

// Sweep drops idle sessions that outlived the ttl and reports how many went.
func (s *SessionStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sl := range s.slots {
		if sl.refs == 0 && s.expired(sl, now) {
			delete(s.slots, id)
			removed++
		}
	}
	return removed
}

// Lookup returns a copy of the chat's session, if one is in progress.
func (s *SessionStore) Lookup(chatID int64) (Session, bool) {
	s.mu.Lock()
	sl, ok := s.slots[chatID]
	if ok {
		sl.refs++
	}
	s.mu.Unlock()
	if !ok {
		return Session{}, false
	}

	sl.mu.Lock()
	var out Session
	found := sl.session != nil
	if found {
		out = *sl.session
	}
	sl.mu.Unlock()

	s.mu.Lock()
	sl.refs--
	if sl.refs == 0 && sl.session == nil {
		delete(s.slots, chatID)
	}
	s.mu.Unlock()

	return out, found
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, sl := range s.slots {
		if sl.refs > 0 || sl.session != nil {
			n++
		}
	}
	return n
}
