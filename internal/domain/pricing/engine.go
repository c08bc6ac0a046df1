// Package pricing computes the effective KRW price of one catalog item
// under the active selection context. Every function is pure; a nil result
// means "negotiated separately" and must never be rendered as zero.
package pricing

import (
	"github.com/ddongsuya/chemonmanagement-sub003/internal/domain/catalog"
)

// Route is the administration pathway for a test substance.
type Route string

const (
	RouteOral Route = "oral"
	RouteIV   Route = "iv"
)

func (r Route) Valid() bool { return r == RouteOral || r == RouteIV }

// Standard is the regulatory framework a study runs under. The OECD-aligned
// variant can carry a price overlay relative to the domestic baseline.
type Standard string

const (
	StandardGLP  Standard = "glp"
	StandardOECD Standard = "glp-oecd"
)

func (s Standard) Valid() bool { return s == StandardGLP || s == StandardOECD }

// Context carries the ambient pricing parameters. Route and Standard matter
// only for route-priced items, ComboArity only for combination items.
type Context struct {
	Route      Route    `json:"route"`
	Standard   Standard `json:"standard"`
	ComboArity int      `json:"combo_arity"`
}

func DefaultContext() Context {
	return Context{Route: RouteOral, Standard: StandardGLP, ComboArity: 2}
}

// ForSingleItem resolves a route/standard item's price: the base price of
// the requested route, adjusted by the route's overlay table when the
// OECD-aligned standard is active. A missing base price stays nil — an
// overlay never turns an unpriced route into a priced one.
func ForSingleItem(item *catalog.Item, route Route, standard Standard, ovOral, ovIV catalog.OverlayTable) *int64 {
	var base *int64
	var overlays catalog.OverlayTable
	switch route {
	case RouteOral:
		base, overlays = item.OralPrice, ovOral
	case RouteIV:
		base, overlays = item.IVPrice, ovIV
	default:
		return nil
	}
	if base == nil {
		return nil
	}

	price := *base
	if standard == StandardOECD {
		if ov, ok := overlays[item.ID]; ok {
			switch {
			case ov.Override != nil:
				price = *ov.Override
			case ov.Delta != nil:
				price += *ov.Delta
			}
		}
	}
	return &price
}

// ForComboItem resolves a combination item's price for the requested arity,
// falling back to the single-item price when that arity has no column.
func ForComboItem(item *catalog.Item, arity int) *int64 {
	var column *int64
	switch arity {
	case 2:
		column = item.Price2
	case 3:
		column = item.Price3
	case 4:
		column = item.Price4
	}
	if column == nil {
		column = item.PriceSingle
	}
	if column == nil {
		return nil
	}
	price := *column
	return &price
}

// ForFlatItem returns a simple/document item's stored price verbatim.
func ForFlatItem(item *catalog.Item) *int64 {
	if item.FlatPrice == nil {
		return nil
	}
	price := *item.FlatPrice
	return &price
}

// ForItem dispatches on the item's pricing shape. This is the single point
// where shape dispatch happens; callers never probe price fields directly.
func ForItem(item *catalog.Item, ctx Context, data *catalog.ModeData) *int64 {
	switch item.Kind {
	case catalog.KindRoute:
		return ForSingleItem(item, ctx.Route, ctx.Standard, data.OverlayOral, data.OverlayIV)
	case catalog.KindCombo:
		return ForComboItem(item, ctx.ComboArity)
	default:
		return ForFlatItem(item)
	}
}
