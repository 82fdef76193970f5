// Package energy tracks the capped, time-regenerating hearts resource
// that gates practice session starts.
package energy

import (
	"sync"
	"time"

	"github.com/example/duelengine/internal/apperr"
	"github.com/example/duelengine/pkg/models"
)

// MaxHearts is the default heart capacity per user.
const MaxHearts = 5

// DefaultRecoverDuration is the default time to regenerate one heart.
const DefaultRecoverDuration = 2 * time.Hour

// Store persists per-user energy state. Get returns nil when no state
// exists yet for the user.
type Store interface {
	Get(userID int64) (*models.EnergyState, error)
	Upsert(state *models.EnergyState) error
}

// Gate applies the recovery formula and enforces the heart cap. Each
// user's check/consume is a single atomic read-modify-write: operations on
// the same user serialize behind a per-user mutex, operations on
// different users never block each other.
type Gate struct {
	store           Store
	maxHearts       int
	recoverDuration time.Duration

	mu    sync.Mutex
	locks map[int64]*sync.Mutex

	now func() time.Time
}

// NewGate creates an energy gate over the given store. Non-positive
// arguments fall back to the defaults.
func NewGate(store Store, maxHearts int, recoverDuration time.Duration) *Gate {
	if maxHearts <= 0 {
		maxHearts = MaxHearts
	}
	if recoverDuration <= 0 {
		recoverDuration = DefaultRecoverDuration
	}
	return &Gate{
		store:           store,
		maxHearts:       maxHearts,
		recoverDuration: recoverDuration,
		locks:           make(map[int64]*sync.Mutex),
		now:             time.Now,
	}
}

func (g *Gate) userLock(userID int64) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()
	l, ok := g.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		g.locks[userID] = l
	}
	return l
}

// Check returns the user's current hearts after applying recovery, and
// the time until the next heart, nil at full capacity. State is created
// lazily at full hearts on first check.
func (g *Gate) Check(userID int64) (hearts int, nextIn *time.Duration, err error) {
	lock := g.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	state, err := g.load(userID)
	if err != nil {
		return 0, nil, err
	}
	recovered, remainder := g.recover(state)
	if recovered {
		if err := g.store.Upsert(state); err != nil {
			return 0, nil, apperr.Persistence(err, "failed to save energy state for user %d", userID)
		}
	}
	if state.Hearts < g.maxHearts {
		wait := g.recoverDuration - remainder
		nextIn = &wait
	}
	return state.Hearts, nextIn, nil
}

// Consume applies recovery, then spends one heart. Fails with
// InsufficientResource when the user is at zero.
func (g *Gate) Consume(userID int64) (hearts int, err error) {
	lock := g.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	state, err := g.load(userID)
	if err != nil {
		return 0, err
	}
	g.recover(state)
	if state.Hearts == 0 {
		return 0, apperr.InsufficientResource("user %d has no hearts left", userID)
	}
	state.Hearts--
	state.LastUpdate = g.now()
	if err := g.store.Upsert(state); err != nil {
		return 0, apperr.Persistence(err, "failed to save energy state for user %d", userID)
	}
	return state.Hearts, nil
}

func (g *Gate) load(userID int64) (*models.EnergyState, error) {
	state, err := g.store.Get(userID)
	if err != nil {
		return nil, apperr.Persistence(err, "failed to load energy state for user %d", userID)
	}
	if state == nil {
		state = &models.EnergyState{
			UserID:     userID,
			Hearts:     g.maxHearts,
			LastUpdate: g.now(),
		}
		if err := g.store.Upsert(state); err != nil {
			return nil, apperr.Persistence(err, "failed to initialize energy state for user %d", userID)
		}
	}
	return state, nil
}

// recover applies elapsed-time regeneration in place and reports whether
// hearts changed, along with the elapsed remainder toward the next heart.
// When hearts increase, LastUpdate is rewound by the remainder so partial
// progress toward the next heart survives the write.
func (g *Gate) recover(state *models.EnergyState) (changed bool, remainder time.Duration) {
	now := g.now()
	elapsed := now.Sub(state.LastUpdate)
	if elapsed < 0 {
		elapsed = 0
	}
	remainder = elapsed % g.recoverDuration

	if state.Hearts >= g.maxHearts {
		return false, remainder
	}
	recovered := int(elapsed / g.recoverDuration)
	if recovered <= 0 {
		return false, remainder
	}
	state.Hearts += recovered
	if state.Hearts > g.maxHearts {
		state.Hearts = g.maxHearts
	}
	state.LastUpdate = now.Add(-remainder)
	return true, remainder
}
