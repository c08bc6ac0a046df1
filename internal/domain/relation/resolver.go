// Package relation turns a selected main test into the set of optional
// add-ons that may legally accompany it: the recovery test and the TK
// sampling configurations gated by the main test's duration.
package relation

import (
	"sort"

	"github.com/google/uuid"

	"github.com/ddongsuya/chemonmanagement-sub003/internal/domain/catalog"
	"github.com/ddongsuya/chemonmanagement-sub003/internal/domain/pricing"
)

// thirdLevelWeeks is the duration at which a parent's TK tree gains the
// draws-per-point level. The threshold is a business rule, so it lives
// here and nowhere else; consumers never re-derive it.
const thirdLevelWeeks = 13

const weekMarker = '주'

// DurationWeeks parses a catalog duration string for a leading integer
// immediately followed by the week marker. Anything else is 0 weeks.
func DurationWeeks(s string) int {
	n := 0
	seen := false
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n = n*10 + int(r-'0')
			seen = true
			continue
		}
		if seen && r == weekMarker {
			return n
		}
		return 0
	}
	return 0
}

// NeedsThirdLevel reports whether the parent's TK tree exposes the
// draws-per-point level. Derived fresh from the item every call.
func NeedsThirdLevel(item *catalog.Item) bool {
	return DurationWeeks(item.Duration) >= thirdLevelWeeks
}

// Pick is one user's path through a TK option tree. Count is only
// meaningful when the parent needs the third level.
type Pick struct {
	Method string `json:"method,omitempty"`
	Points string `json:"points,omitempty"`
	Count  string `json:"count,omitempty"`
}

// OfferSource tags where an option candidate came from.
type OfferSource string

const (
	OfferRecovery OfferSource = "recovery"
	OfferTKList   OfferSource = "tk-list"
	OfferTKSingle OfferSource = "tk-single"
	OfferTKTree   OfferSource = "tk-tree"
)

// Offer is one presentable accept action for an option candidate, priced
// under the context current at offer time.
type Offer struct {
	Source OfferSource   `json:"source"`
	Item   *catalog.Item `json:"item"`
	Price  *int64        `json:"price"`
}

// Resolver computes option offers against one mode's catalog snapshot and
// carries the ephemeral tree-navigation state per parent instance. It is
// not part of the selection model; discarding it loses nothing accepted.
type Resolver struct {
	data  *catalog.ModeData
	picks map[uuid.UUID]*Pick
}

func NewResolver(data *catalog.ModeData) *Resolver {
	return &Resolver{
		data:  data,
		picks: make(map[uuid.UUID]*Pick),
	}
}

// Offers returns the directly acceptable candidates for a selected main
// test: the recovery test and any flat-list or standalone TK items. A
// candidate already added for this parent is never offered again. Unknown
// ids degrade to "nothing to offer" — a content gap, not a usage error.
func (r *Resolver) Offers(mainItemID int, pctx pricing.Context, added func(itemID int) bool) []Offer {
	rel, ok := r.data.Relation(mainItemID)
	if !ok {
		return nil
	}

	var offers []Offer
	appendOffer := func(source OfferSource, id int) {
		if added(id) {
			return
		}
		item := r.data.Item(id)
		if item == nil {
			return
		}
		offers = append(offers, Offer{
			Source: source,
			Item:   item,
			Price:  pricing.ForItem(item, pctx, r.data),
		})
	}

	if rel.RecoveryID != nil {
		appendOffer(OfferRecovery, *rel.RecoveryID)
	}
	for _, id := range rel.TKListIDs {
		appendOffer(OfferTKList, id)
	}
	if rel.TKSingleID != nil {
		appendOffer(OfferTKSingle, *rel.TKSingleID)
	}
	return offers
}

// Methods lists the level-1 tree choices for a main test, sorted for
// stable display.
func (r *Resolver) Methods(mainItemID int) []string {
	rel, ok := r.data.Relation(mainItemID)
	if !ok {
		return nil
	}
	methods := make([]string, 0, len(rel.Tree))
	for m := range rel.Tree {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	return methods
}

// Points lists the level-2 choices available under one method.
func (r *Resolver) Points(mainItemID int, method string) []string {
	rel, ok := r.data.Relation(mainItemID)
	if !ok {
		return nil
	}
	level, ok := rel.Tree[method]
	if !ok {
		return nil
	}
	points := make([]string, 0, len(level))
	for p := range level {
		points = append(points, p)
	}
	sort.Strings(points)
	return points
}

// Counts lists the level-3 choices under a method/points pair. It returns
// nothing for parents whose tree collapses to two levels.
func (r *Resolver) Counts(mainItemID int, method, points string) []string {
	main := r.data.Item(mainItemID)
	if main == nil || !NeedsThirdLevel(main) {
		return nil
	}
	rel, ok := r.data.Relation(mainItemID)
	if !ok {
		return nil
	}
	node, ok := rel.Tree[method][points]
	if !ok {
		return nil
	}
	counts := make([]string, 0, len(node.Counts))
	for c := range node.Counts {
		counts = append(counts, c)
	}
	sort.Strings(counts)
	return counts
}

// Resolve maps a completed pick to its catalog item. Any missing level
// yields (nil, false); no accept action exists for an unresolvable path.
func (r *Resolver) Resolve(mainItemID int, pick Pick) (*catalog.Item, bool) {
	main := r.data.Item(mainItemID)
	if main == nil {
		return nil, false
	}
	rel, ok := r.data.Relation(mainItemID)
	if !ok {
		return nil, false
	}
	node, ok := rel.Tree[pick.Method][pick.Points]
	if !ok {
		return nil, false
	}

	var id int
	if NeedsThirdLevel(main) {
		id, ok = node.Counts[pick.Count]
		if !ok {
			return nil, false
		}
	} else {
		id = node.ItemID
		if id == 0 {
			return nil, false
		}
	}

	item := r.data.Item(id)
	if item == nil {
		return nil, false
	}
	return item, true
}

// -- ephemeral per-parent pick state --

// ChooseMethod records a level-1 choice and clears the deeper levels.
func (r *Resolver) ChooseMethod(parent uuid.UUID, method string) {
	r.picks[parent] = &Pick{Method: method}
}

// ChoosePoints records a level-2 choice and clears the count.
func (r *Resolver) ChoosePoints(parent uuid.UUID, points string) {
	p := r.pick(parent)
	p.Points = points
	p.Count = ""
}

// ChooseCount records a level-3 choice.
func (r *Resolver) ChooseCount(parent uuid.UUID, count string) {
	r.pick(parent).Count = count
}

// PickFor returns the current navigation state for a parent.
func (r *Resolver) PickFor(parent uuid.UUID) Pick {
	if p, ok := r.picks[parent]; ok {
		return *p
	}
	return Pick{}
}

// ResetPick returns the parent's tree navigation to "nothing chosen".
// Called after every accepted option so the next pick starts at the top.
func (r *Resolver) ResetPick(parent uuid.UUID) {
	delete(r.picks, parent)
}

func (r *Resolver) pick(parent uuid.UUID) *Pick {
	p, ok := r.picks[parent]
	if !ok {
		p = &Pick{}
		r.picks[parent] = p
	}
	return p
}
