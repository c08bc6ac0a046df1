package quotation

import (
	"time"

	"github.com/google/uuid"

	"github.com/ddongsuya/chemonmanagement-sub003/internal/domain/catalog"
	"github.com/ddongsuya/chemonmanagement-sub003/internal/domain/pricing"
	"github.com/ddongsuya/chemonmanagement-sub003/internal/domain/relation"
)

// SelectedTest is one row of the working quotation. InstanceID identifies
// the row; ItemID points back at the catalog. Price is frozen at the
// moment the row was accepted and is never recomputed from context.
type SelectedTest struct {
	InstanceID    uuid.UUID      `json:"instance_id"`
	ItemID        int            `json:"item_id"`
	Name          string         `json:"name"`
	Category      string         `json:"category"`
	Price         *int64         `json:"price"`
	PriceOverride *int64         `json:"price_override,omitempty"`
	IsOption      bool           `json:"is_option"`
	ParentID      *uuid.UUID     `json:"parent_id,omitempty"`
	TK            *relation.Pick `json:"tk,omitempty"`
	SortOrder     int            `json:"sort_order"`
}

// EffectivePrice is the override when set, else the frozen price. nil
// means the row is negotiated separately and contributes nothing to totals.
func (t *SelectedTest) EffectivePrice() *int64 {
	if t.PriceOverride != nil {
		return t.PriceOverride
	}
	return t.Price
}

// Context is the ambient parameter set of one quotation session.
type Context struct {
	Mode       catalog.TestMode `json:"mode"`
	Route      pricing.Route    `json:"route"`
	Standard   pricing.Standard `json:"standard"`
	ComboArity int              `json:"combo_arity"`
}

func DefaultContext(mode catalog.TestMode) Context {
	p := pricing.DefaultContext()
	return Context{Mode: mode, Route: p.Route, Standard: p.Standard, ComboArity: p.ComboArity}
}

func (c Context) Pricing() pricing.Context {
	return pricing.Context{Route: c.Route, Standard: c.Standard, ComboArity: c.ComboArity}
}

// ContextPatch is a partial context update; nil fields are left untouched.
// Mode is fixed for the life of a session and cannot be patched.
type ContextPatch struct {
	Route      *pricing.Route    `json:"route,omitempty"`
	Standard   *pricing.Standard `json:"standard,omitempty"`
	ComboArity *int              `json:"combo_arity,omitempty"`
}

// Totals are derived from the rows on every read, never cached.
type Totals struct {
	SubtotalTest   int64   `json:"subtotal_test"`
	Surcharge      int64   `json:"formulation_surcharge"`
	DiscountRate   float64 `json:"discount_rate"`
	DiscountReason string  `json:"discount_reason,omitempty"`
	DiscountAmount int64   `json:"discount_amount"`
	GrandTotal     int64   `json:"grand_total"`
}

// Quotation is the flat handoff snapshot passed to the persistence and
// document layers once a selection is finalized.
type Quotation struct {
	ID        uuid.UUID      `json:"id"`
	Context   Context        `json:"context"`
	Tests     []SelectedTest `json:"tests"`
	Totals    Totals         `json:"totals"`
	CreatedAt time.Time      `json:"created_at"`
}
