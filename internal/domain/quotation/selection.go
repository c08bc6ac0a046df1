package quotation

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/ddongsuya/chemonmanagement-sub003/internal/domain/catalog"
	"github.com/ddongsuya/chemonmanagement-sub003/internal/domain/pricing"
	"github.com/ddongsuya/chemonmanagement-sub003/internal/domain/relation"
)

// Selection owns the ordered set of SelectedTest rows and the session
// context. It is an explicit, constructor-injected object: every wizard
// session gets its own instance and instances never share state.
type Selection struct {
	ctx  Context
	data *catalog.ModeData

	rows     []*SelectedTest
	nextSort int

	surcharge      int64
	discountRate   float64
	discountReason string
}

func NewSelection(data *catalog.ModeData, ctx Context) *Selection {
	return &Selection{ctx: ctx, data: data}
}

func (s *Selection) Context() Context { return s.ctx }

// SetContext applies a partial context update. Existing rows keep the
// price they were accepted at; context changes affect future picks only.
func (s *Selection) SetContext(patch ContextPatch) error {
	if patch.Route != nil {
		if !patch.Route.Valid() {
			return fmt.Errorf("invalid route: %s", *patch.Route)
		}
		s.ctx.Route = *patch.Route
	}
	if patch.Standard != nil {
		if !patch.Standard.Valid() {
			return fmt.Errorf("invalid standard: %s", *patch.Standard)
		}
		s.ctx.Standard = *patch.Standard
	}
	if patch.ComboArity != nil {
		if *patch.ComboArity < 2 || *patch.ComboArity > 4 {
			return fmt.Errorf("invalid combo arity: %d", *patch.ComboArity)
		}
		s.ctx.ComboArity = *patch.ComboArity
	}
	return nil
}

// Rows returns the selected rows in acceptance order.
func (s *Selection) Rows() []*SelectedTest {
	out := make([]*SelectedTest, len(s.rows))
	copy(out, s.rows)
	return out
}

// Row returns the row with the given instance id, or nil.
func (s *Selection) Row(instanceID uuid.UUID) *SelectedTest {
	for _, r := range s.rows {
		if r.InstanceID == instanceID {
			return r
		}
	}
	return nil
}

// FindMain returns the non-option row holding this catalog item, or nil.
func (s *Selection) FindMain(itemID int) *SelectedTest {
	for _, r := range s.rows {
		if !r.IsOption && r.ItemID == itemID {
			return r
		}
	}
	return nil
}

// HasOption reports whether an option row with this catalog item already
// hangs off the given parent instance.
func (s *Selection) HasOption(parentID uuid.UUID, itemID int) bool {
	for _, r := range s.rows {
		if r.IsOption && r.ParentID != nil && *r.ParentID == parentID && r.ItemID == itemID {
			return true
		}
	}
	return false
}

// ToggleMainTest adds the catalog item as a main test, or removes it —
// along with every option hanging off it — when it is already selected.
// The returned row is nil on removal.
func (s *Selection) ToggleMainTest(itemID int) (*SelectedTest, error) {
	if existing := s.FindMain(itemID); existing != nil {
		s.removeCascade(existing.InstanceID)
		return nil, nil
	}

	item := s.data.Item(itemID)
	if item == nil {
		return nil, fmt.Errorf("catalog item %d not found", itemID)
	}

	row := &SelectedTest{
		InstanceID: uuid.New(),
		ItemID:     item.ID,
		Name:       item.Name,
		Category:   item.Category,
		Price:      pricing.ForItem(item, s.ctx.Pricing(), s.data),
		SortOrder:  s.nextSortOrder(),
	}
	s.rows = append(s.rows, row)
	return row, nil
}

// AcceptOption appends an option row under a selected main test, priced
// under the current context. Accepting an option that is already present
// for the same parent is a no-op returning the existing row.
func (s *Selection) AcceptOption(parentID uuid.UUID, item *catalog.Item, tk *relation.Pick) (*SelectedTest, error) {
	parent := s.Row(parentID)
	if parent == nil || parent.IsOption {
		return nil, fmt.Errorf("parent instance %s is not a selected main test", parentID)
	}

	if s.HasOption(parentID, item.ID) {
		for _, r := range s.rows {
			if r.IsOption && r.ParentID != nil && *r.ParentID == parentID && r.ItemID == item.ID {
				return r, nil
			}
		}
	}

	pid := parentID
	row := &SelectedTest{
		InstanceID: uuid.New(),
		ItemID:     item.ID,
		Name:       item.Name,
		Category:   item.Category,
		Price:      pricing.ForItem(item, s.ctx.Pricing(), s.data),
		IsOption:   true,
		ParentID:   &pid,
		TK:         tk,
		SortOrder:  s.nextSortOrder(),
	}
	s.rows = append(s.rows, row)
	return row, nil
}

// RemoveSelected removes one row. Removing a main test cascades to its
// options; removing an option leaves its parent alone. Reports whether
// anything was removed.
func (s *Selection) RemoveSelected(instanceID uuid.UUID) bool {
	row := s.Row(instanceID)
	if row == nil {
		return false
	}
	if row.IsOption {
		s.removeOnly(instanceID)
		return true
	}
	s.removeCascade(instanceID)
	return true
}

func (s *Selection) removeOnly(instanceID uuid.UUID) {
	kept := s.rows[:0]
	for _, r := range s.rows {
		if r.InstanceID != instanceID {
			kept = append(kept, r)
		}
	}
	s.rows = kept
}

// removeCascade drops the row and every option whose ParentID points at
// it. This is what keeps orphaned options structurally impossible.
func (s *Selection) removeCascade(instanceID uuid.UUID) {
	kept := s.rows[:0]
	for _, r := range s.rows {
		if r.InstanceID == instanceID {
			continue
		}
		if r.ParentID != nil && *r.ParentID == instanceID {
			continue
		}
		kept = append(kept, r)
	}
	s.rows = kept
}

// OverridePrice sets or clears (nil) a row's price override.
func (s *Selection) OverridePrice(instanceID uuid.UUID, price *int64) bool {
	row := s.Row(instanceID)
	if row == nil {
		return false
	}
	row.PriceOverride = price
	return true
}

// OverrideName replaces a row's display name.
func (s *Selection) OverrideName(instanceID uuid.UUID, name string) bool {
	row := s.Row(instanceID)
	if row == nil || name == "" {
		return false
	}
	row.Name = name
	return true
}

func (s *Selection) SetSurcharge(v int64) { s.surcharge = v }

func (s *Selection) SetDiscount(rate float64, reason string) error {
	if rate < 0 || rate > 100 {
		return fmt.Errorf("discount rate out of range: %v", rate)
	}
	s.discountRate = rate
	s.discountReason = reason
	return nil
}

// discountBase is the figure the discount rate applies to. The rate
// applies to the test subtotal only, not subtotal+surcharge; keep that
// policy here if it ever changes.
func (s *Selection) discountBase(subtotal int64) int64 {
	return subtotal
}

// Totals recomputes the aggregates from the current rows. Rows without an
// effective price (negotiated separately) contribute nothing.
func (s *Selection) Totals() Totals {
	var subtotal int64
	for _, r := range s.rows {
		if p := r.EffectivePrice(); p != nil {
			subtotal += *p
		}
	}

	discount := int64(math.Round(float64(s.discountBase(subtotal)) * s.discountRate / 100))

	return Totals{
		SubtotalTest:   subtotal,
		Surcharge:      s.surcharge,
		DiscountRate:   s.discountRate,
		DiscountReason: s.discountReason,
		DiscountAmount: discount,
		GrandTotal:     subtotal + s.surcharge - discount,
	}
}

// Snapshot flattens the selection into the handoff record for the
// persistence and document layers.
func (s *Selection) Snapshot() *Quotation {
	tests := make([]SelectedTest, len(s.rows))
	for i, r := range s.rows {
		tests[i] = *r
	}
	return &Quotation{
		ID:        uuid.New(),
		Context:   s.ctx,
		Tests:     tests,
		Totals:    s.Totals(),
		CreatedAt: time.Now().UTC(),
	}
}

func (s *Selection) nextSortOrder() int {
	s.nextSort++
	return s.nextSort
}
