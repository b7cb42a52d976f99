package service

import (
	"sync"
	"time"

	"github.com/guttosm/cart-service/internal/domain/model"
	"github.com/guttosm/cart-service/internal/logger"
	"github.com/guttosm/cart-service/internal/metrics"
)

// CartObserver is told about every change to every cart in a store.
type CartObserver func(sessionID string, cart model.Cart)

// CartStoreConfig controls session expiry.
type CartStoreConfig struct {
	// SessionTTL is how long an untouched cart survives.
	SessionTTL time.Duration
	// CleanupInterval is how often idle carts are swept. Zero disables the sweeper.
	CleanupInterval time.Duration
	// MaxQuantity caps each cart line. Zero leaves lines unbounded.
	MaxQuantity int
}

// storeSubscriptions is the fan-out subscription every managed cart carries.
const storeSubscriptions = 1

type cartSession struct {
	manager  *CartManager
	lastSeen time.Time
}

// CartStore holds one CartManager per session id.
type CartStore struct {
	mu        sync.Mutex
	sessions  map[string]*cartSession
	observers []CartObserver
	cfg       CartStoreConfig
	now       func() time.Time

	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewCartStore creates a store and starts its sweeper.
func NewCartStore(cfg CartStoreConfig, observers ...CartObserver) *CartStore {
	s := &CartStore{
		sessions:  make(map[string]*cartSession),
		observers: observers,
		cfg:       cfg,
		now:       time.Now,
		stopCh:    make(chan struct{}),
		done:      make(chan struct{}),
	}
	if cfg.CleanupInterval > 0 && cfg.SessionTTL > 0 {
		go s.sweepLoop()
	} else {
		close(s.done)
	}
	return s
}

// Get returns the cart for sessionID, creating an empty one on first use.
func (s *CartStore) Get(sessionID string) *CartManager {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if sess, ok := s.sessions[sessionID]; ok {
		sess.lastSeen = now
		return sess.manager
	}

	sess := &cartSession{manager: s.newManager(sessionID), lastSeen: now}
	s.sessions[sessionID] = sess
	metrics.SetActiveCarts(len(s.sessions))
	return sess.manager
}

// Peek returns the cart for sessionID without creating one.
func (s *CartStore) Peek(sessionID string) (*CartManager, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, false
	}
	sess.lastSeen = s.now()
	return sess.manager, true
}

// Delete drops the cart for sessionID.
func (s *CartStore) Delete(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	metrics.SetActiveCarts(len(s.sessions))
	s.mu.Unlock()
}

// Len returns the number of live sessions.
func (s *CartStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep evicts carts idle for longer than SessionTTL. Carts with live
// subscribers are kept. It returns the number evicted.
func (s *CartStore) Sweep() int {
	if s.cfg.SessionTTL <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.cfg.SessionTTL)
	evicted := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) && sess.manager.SubscriberCount() <= storeSubscriptions {
			delete(s.sessions, id)
			evicted++
		}
	}
	metrics.SetActiveCarts(len(s.sessions))
	return evicted
}

// Stop halts the sweeper. Safe to call more than once.
func (s *CartStore) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		<-s.done
	})
}

func (s *CartStore) newManager(sessionID string) *CartManager {
	observers := s.observers
	return NewCartManager(
		WithMaxQuantity(s.cfg.MaxQuantity),
		WithSubscriber(func(cart model.Cart) {
			for _, observe := range observers {
				observe(sessionID, cart)
			}
		}),
	)
}

func (s *CartStore) sweepLoop() {
	defer close(s.done)

	ticker := time.NewTicker(s.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				log := logger.Logger()
				log.Debug().Int("evicted", n).Msg("Swept idle carts")
			}
		case <-s.stopCh:
			return
		}
	}
}
