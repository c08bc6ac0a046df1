package quotation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ddongsuya/chemonmanagement-sub003/internal/domain/catalog"
	"github.com/ddongsuya/chemonmanagement-sub003/internal/domain/pricing"
	"github.com/ddongsuya/chemonmanagement-sub003/internal/domain/relation"
)

// ErrSessionNotFound is returned when a drafting session id is unknown,
// typically because the quotation was already finalized.
var ErrSessionNotFound = errors.New("drafting session not found")

// session is one in-flight quotation draft: the selection itself plus the
// option resolver carrying the ephemeral tree-navigation state. Neither
// Selection nor Resolver is safe for concurrent use, so every operation on
// a session holds its mutex; the echo server runs handlers concurrently
// and two requests may target the same draft.
type session struct {
	mu        sync.Mutex
	selection *Selection
	resolver  *relation.Resolver
	data      *catalog.ModeData
}

// Service runs the drafting workflow: it owns the live sessions, resolves
// catalog data through the provider, and hands finalized snapshots to the
// repository.
type Service struct {
	provider catalog.Provider
	repo     Repository

	mu       sync.Mutex
	sessions map[uuid.UUID]*session
}

func NewService(provider catalog.Provider, repo Repository) *Service {
	return &Service{
		provider: provider,
		repo:     repo,
		sessions: make(map[uuid.UUID]*session),
	}
}

// State is the full client-facing view of one drafting session.
type State struct {
	SessionID uuid.UUID      `json:"session_id"`
	Context   Context        `json:"context"`
	Tests     []SelectedTest `json:"tests"`
	Totals    Totals         `json:"totals"`
}

// OptionsView is what the client needs to render the option panel for one
// selected main test: the directly acceptable offers, the tree levels with
// the current navigation state, and the resolved candidate when the pick
// is complete.
type OptionsView struct {
	Offers    []relation.Offer `json:"offers"`
	Methods   []string         `json:"methods,omitempty"`
	Points    []string         `json:"points,omitempty"`
	Counts    []string         `json:"counts,omitempty"`
	Pick      relation.Pick    `json:"pick"`
	Candidate *relation.Offer  `json:"candidate,omitempty"`
}

// Start opens a drafting session for a test mode with the default context.
func (s *Service) Start(ctx context.Context, mode catalog.TestMode) (*State, error) {
	data, err := s.provider.ModeData(ctx, mode)
	if err != nil {
		return nil, err
	}

	sess := &session{
		selection: NewSelection(data, DefaultContext(mode)),
		resolver:  relation.NewResolver(data),
		data:      data,
	}

	id := uuid.New()
	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.state(id, sess), nil
}

// State returns the current view of a session.
func (s *Service) State(sessionID uuid.UUID) (*State, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.state(sessionID, sess), nil
}

// Toggle adds the catalog item as a main test or removes it (with its
// options) when already selected. On removal any half-finished tree
// navigation for the vanished rows becomes unreachable; picks are keyed
// by instance id.
func (s *Service) Toggle(sessionID uuid.UUID, itemID int) (*State, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if _, err := sess.selection.ToggleMainTest(itemID); err != nil {
		return nil, err
	}
	return s.state(sessionID, sess), nil
}

// Options returns the option panel for a selected main test.
func (s *Service) Options(sessionID, parentID uuid.UUID) (*OptionsView, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return optionsView(sess, parentID)
}

// optionsView builds the panel for one parent row; sess.mu must be held.
func optionsView(sess *session, parentID uuid.UUID) (*OptionsView, error) {
	parent, err := mainRow(sess, parentID)
	if err != nil {
		return nil, err
	}

	pctx := sess.selection.Context().Pricing()
	added := func(itemID int) bool { return sess.selection.HasOption(parentID, itemID) }

	view := &OptionsView{
		Offers:  sess.resolver.Offers(parent.ItemID, pctx, added),
		Methods: sess.resolver.Methods(parent.ItemID),
		Pick:    sess.resolver.PickFor(parentID),
	}
	if view.Pick.Method != "" {
		view.Points = sess.resolver.Points(parent.ItemID, view.Pick.Method)
	}
	if view.Pick.Points != "" {
		view.Counts = sess.resolver.Counts(parent.ItemID, view.Pick.Method, view.Pick.Points)
	}
	if item, ok := sess.resolver.Resolve(parent.ItemID, view.Pick); ok && !added(item.ID) {
		view.Candidate = &relation.Offer{
			Source: relation.OfferTKTree,
			Item:   item,
			Price:  pricing.ForItem(item, pctx, sess.data),
		}
	}
	return view, nil
}

// Choose records one tree-navigation step for a parent row. Level is one
// of "method", "points", "count"; choosing an upper level clears the ones
// below it.
func (s *Service) Choose(sessionID, parentID uuid.UUID, level, value string) (*OptionsView, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if _, err := mainRow(sess, parentID); err != nil {
		return nil, err
	}

	switch level {
	case "method":
		sess.resolver.ChooseMethod(parentID, value)
	case "points":
		sess.resolver.ChoosePoints(parentID, value)
	case "count":
		sess.resolver.ChooseCount(parentID, value)
	default:
		return nil, fmt.Errorf("unknown option level: %s", level)
	}
	return optionsView(sess, parentID)
}

// AcceptOffer accepts a directly offered option (recovery, TK list, TK
// single) under a parent row.
func (s *Service) AcceptOffer(sessionID, parentID uuid.UUID, itemID int) (*State, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	item := sess.data.Item(itemID)
	if item == nil {
		return nil, fmt.Errorf("catalog item %d not found", itemID)
	}
	if _, err := sess.selection.AcceptOption(parentID, item, nil); err != nil {
		return nil, err
	}
	return s.state(sessionID, sess), nil
}

// AcceptTreePick resolves the parent's current tree navigation and accepts
// the resulting item, then resets the navigation so the next pick starts
// at the top.
func (s *Service) AcceptTreePick(sessionID, parentID uuid.UUID) (*State, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	parent, err := mainRow(sess, parentID)
	if err != nil {
		return nil, err
	}

	pick := sess.resolver.PickFor(parentID)
	item, ok := sess.resolver.Resolve(parent.ItemID, pick)
	if !ok {
		return nil, fmt.Errorf("tk selection incomplete for instance %s", parentID)
	}

	tk := pick
	if _, err := sess.selection.AcceptOption(parentID, item, &tk); err != nil {
		return nil, err
	}
	sess.resolver.ResetPick(parentID)
	return s.state(sessionID, sess), nil
}

// Remove deletes one row; main tests cascade to their options.
func (s *Service) Remove(sessionID, instanceID uuid.UUID) (*State, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !sess.selection.RemoveSelected(instanceID) {
		return nil, fmt.Errorf("selected row %s not found", instanceID)
	}
	sess.resolver.ResetPick(instanceID)
	return s.state(sessionID, sess), nil
}

// SetContext patches the session context. Frozen row prices stay as they
// are; only future picks see the new context.
func (s *Service) SetContext(sessionID uuid.UUID, patch ContextPatch) (*State, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.selection.SetContext(patch); err != nil {
		return nil, err
	}
	return s.state(sessionID, sess), nil
}

// PricingUpdate carries the adjustable non-test figures of a draft. Nil
// fields are left untouched.
type PricingUpdate struct {
	Surcharge      *int64   `json:"formulation_surcharge,omitempty"`
	DiscountRate   *float64 `json:"discount_rate,omitempty"`
	DiscountReason *string  `json:"discount_reason,omitempty"`
}

// SetPricing applies surcharge and discount adjustments.
func (s *Service) SetPricing(sessionID uuid.UUID, upd PricingUpdate) (*State, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if upd.Surcharge != nil {
		sess.selection.SetSurcharge(*upd.Surcharge)
	}
	if upd.DiscountRate != nil {
		reason := ""
		if upd.DiscountReason != nil {
			reason = *upd.DiscountReason
		}
		if err := sess.selection.SetDiscount(*upd.DiscountRate, reason); err != nil {
			return nil, err
		}
	}
	return s.state(sessionID, sess), nil
}

// OverridePrice sets (or clears, with nil) the manual price of one row.
func (s *Service) OverridePrice(sessionID, instanceID uuid.UUID, price *int64) (*State, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !sess.selection.OverridePrice(instanceID, price) {
		return nil, fmt.Errorf("selected row %s not found", instanceID)
	}
	return s.state(sessionID, sess), nil
}

// OverrideName replaces the display name of one row.
func (s *Service) OverrideName(sessionID, instanceID uuid.UUID, name string) (*State, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !sess.selection.OverrideName(instanceID, name) {
		return nil, fmt.Errorf("selected row %s not found or empty name", instanceID)
	}
	return s.state(sessionID, sess), nil
}

// Finalize snapshots the draft, persists it, and closes the session.
func (s *Service) Finalize(ctx context.Context, sessionID uuid.UUID) (*Quotation, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	q := sess.selection.Snapshot()
	if err := s.repo.Save(ctx, q); err != nil {
		return nil, fmt.Errorf("save quotation: %w", err)
	}

	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	return q, nil
}

// Quotation fetches a finalized quotation by id.
func (s *Service) Quotation(ctx context.Context, id uuid.UUID) (*Quotation, error) {
	return s.repo.GetByID(ctx, id)
}

// ListQuotations pages through finalized quotations in creation order.
func (s *Service) ListQuotations(ctx context.Context, limit, offset int) ([]*Quotation, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) session(id uuid.UUID) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// state copies the session into a client view; sess.mu must be held.
func (s *Service) state(id uuid.UUID, sess *session) *State {
	rows := sess.selection.Rows()
	tests := make([]SelectedTest, len(rows))
	for i, r := range rows {
		tests[i] = *r
	}
	return &State{
		SessionID: id,
		Context:   sess.selection.Context(),
		Tests:     tests,
		Totals:    sess.selection.Totals(),
	}
}

func mainRow(sess *session, parentID uuid.UUID) (*SelectedTest, error) {
	parent := sess.selection.Row(parentID)
	if parent == nil || parent.IsOption {
		return nil, fmt.Errorf("instance %s is not a selected main test", parentID)
	}
	return parent, nil
}
