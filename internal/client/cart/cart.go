// Package cart mirrors the server-side cart on the client. The snapshot
// is only ever replaced wholesale from a server response; the client is
// never the source of truth for totals.
package cart

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/thedinkardubey/sarvavihar-frontend/internal/client/api"
	"github.com/thedinkardubey/sarvavihar-frontend/internal/client/session"
	"github.com/thedinkardubey/sarvavihar-frontend/internal/models"
)

// CartClient is the slice of the API facade the store drives.
type CartClient interface {
	Get(ctx context.Context) api.CartResult
	Add(ctx context.Context, itemID string, quantity int) api.CartResult
	Update(ctx context.Context, itemID string, quantity int) api.CartResult
	Remove(ctx context.Context, itemID string) api.CartResult
	Clear(ctx context.Context) api.CartResult
}

// Auth is the session surface the store guards mutations with.
type Auth interface {
	IsAuthenticated() bool
}

// Store holds the client's view of the cart.
type Store struct {
	api     CartClient
	session Auth
	log     *zap.Logger

	mu       sync.Mutex
	snapshot models.Cart
}

// New constructs a Store and wires it to the session store's transitions:
// sign-in triggers a fetch, sign-out resets the snapshot so no stale cart
// is ever visible to a different or logged-out user.
func New(client CartClient, sess *session.Store, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{api: client, session: sess, log: log}
	sess.Subscribe(s.handleSessionChange)
	return s
}

func (s *Store) handleSessionChange(status session.Status) {
	switch status {
	case session.StatusAuthenticated:
		if r := s.Fetch(context.Background()); !r.Success {
			s.log.Warn("cart fetch after sign-in failed", zap.String("message", r.Message))
		}
	case session.StatusAnonymous:
		s.reset()
	}
}

func (s *Store) replace(c models.Cart) {
	s.mu.Lock()
	s.snapshot = c
	s.mu.Unlock()
}

func (s *Store) reset() {
	s.replace(models.Cart{})
}

// Snapshot returns a copy of the current cart state.
func (s *Store) Snapshot() models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.snapshot
	c.Items = append([]models.CartItem(nil), s.snapshot.Items...)
	return c
}

// IsInCart reports whether the product is present in the snapshot.
// Read-only; no network access.
func (s *Store) IsInCart(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, line := range s.snapshot.Items {
		if line.Item.ID == productID {
			return true
		}
	}
	return false
}

// QuantityOf returns the snapshot quantity for the product, or 0.
// Read-only; no network access.
func (s *Store) QuantityOf(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, line := range s.snapshot.Items {
		if line.Item.ID == productID {
			return line.Quantity
		}
	}
	return 0
}

// TotalItems returns the server-computed item count of the snapshot.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.TotalItems
}

// Fetch replaces the snapshot with the server's current cart. While
// anonymous it just resets the local snapshot without a network call.
func (s *Store) Fetch(ctx context.Context) api.Result {
	if !s.session.IsAuthenticated() {
		s.reset()
		return api.Result{Success: true}
	}

	res := s.api.Get(ctx)
	if res.Success {
		s.replace(res.Cart)
	}
	return res.Result
}

// guard rejects mutations while anonymous without touching the network.
func (s *Store) guard() (api.Result, bool) {
	if s.session.IsAuthenticated() {
		return api.Result{}, true
	}
	return api.Result{Success: false, Message: api.MsgLoginRequired}, false
}

// AddItem adds quantity units of a product and applies the snapshot the
// server returns; quantities are never incremented locally.
func (s *Store) AddItem(ctx context.Context, productID string, quantity int) api.Result {
	if r, ok := s.guard(); !ok {
		return r
	}
	res := s.api.Add(ctx, productID, quantity)
	if res.Success {
		s.replace(res.Cart)
	}
	return res.Result
}

// UpdateItem sets a line's quantity; 0 is a removal, decided server-side.
func (s *Store) UpdateItem(ctx context.Context, productID string, quantity int) api.Result {
	if r, ok := s.guard(); !ok {
		return r
	}
	res := s.api.Update(ctx, productID, quantity)
	if res.Success {
		s.replace(res.Cart)
	}
	return res.Result
}

// RemoveItem deletes a line from the cart.
func (s *Store) RemoveItem(ctx context.Context, productID string) api.Result {
	if r, ok := s.guard(); !ok {
		return r
	}
	res := s.api.Remove(ctx, productID)
	if res.Success {
		s.replace(res.Cart)
	}
	return res.Result
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) api.Result {
	if r, ok := s.guard(); !ok {
		return r
	}
	res := s.api.Clear(ctx)
	if res.Success {
		s.replace(res.Cart)
	}
	return res.Result
}
