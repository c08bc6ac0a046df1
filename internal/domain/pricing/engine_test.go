package pricing

import (
	"testing"

	"github.com/ddongsuya/chemonmanagement-sub003/internal/domain/catalog"
)

func won(n int64) *int64 { return &n }

func routeItem(id int, oral, iv *int64) *catalog.Item {
	return &catalog.Item{ID: id, Kind: catalog.KindRoute, OralPrice: oral, IVPrice: iv}
}

func TestForSingleItem_DomesticUsesBasePrice(t *testing.T) {
	item := routeItem(110, won(80_000_000), won(95_000_000))
	overlays := catalog.OverlayTable{110: {Delta: won(8_000_000)}}

	got := ForSingleItem(item, RouteOral, StandardGLP, overlays, nil)
	if got == nil || *got != 80_000_000 {
		t.Errorf("domestic oral price = %v, want 80000000", got)
	}

	got = ForSingleItem(item, RouteIV, StandardGLP, nil, overlays)
	if got == nil || *got != 95_000_000 {
		t.Errorf("domestic iv price = %v, want 95000000", got)
	}
}

func TestForSingleItem_OECDDelta(t *testing.T) {
	item := routeItem(110, won(80_000_000), won(95_000_000))
	ovOral := catalog.OverlayTable{110: {Delta: won(8_000_000)}}
	ovIV := catalog.OverlayTable{110: {Delta: won(9_500_000)}}

	got := ForSingleItem(item, RouteOral, StandardOECD, ovOral, ovIV)
	if got == nil || *got != 88_000_000 {
		t.Errorf("OECD oral price = %v, want 88000000", got)
	}

	got = ForSingleItem(item, RouteIV, StandardOECD, ovOral, ovIV)
	if got == nil || *got != 104_500_000 {
		t.Errorf("OECD iv price = %v, want 104500000", got)
	}
}

func TestForSingleItem_OECDOverrideWins(t *testing.T) {
	item := routeItem(111, won(160_000_000), nil)
	ovOral := catalog.OverlayTable{111: {Override: won(176_000_000), Delta: won(1)}}

	got := ForSingleItem(item, RouteOral, StandardOECD, ovOral, nil)
	if got == nil || *got != 176_000_000 {
		t.Errorf("override price = %v, want 176000000", got)
	}
}

func TestForSingleItem_OECDWithoutEntryLeavesBase(t *testing.T) {
	item := routeItem(120, won(18_000_000), nil)

	got := ForSingleItem(item, RouteOral, StandardOECD, catalog.OverlayTable{}, nil)
	if got == nil || *got != 18_000_000 {
		t.Errorf("price without overlay entry = %v, want base 18000000", got)
	}
}

func TestForSingleItem_MissingBaseStaysNil(t *testing.T) {
	// 26-week study offered orally only; an overlay entry must not
	// conjure an IV price.
	item := routeItem(112, won(265_000_000), nil)
	ovIV := catalog.OverlayTable{112: {Override: won(1_000_000)}}

	if got := ForSingleItem(item, RouteIV, StandardOECD, nil, ovIV); got != nil {
		t.Errorf("expected nil for missing base price, got %d", *got)
	}
	if got := ForSingleItem(item, RouteIV, StandardGLP, nil, ovIV); got != nil {
		t.Errorf("expected nil for missing base price, got %d", *got)
	}
}

func TestForSingleItem_Purity(t *testing.T) {
	item := routeItem(110, won(80_000_000), nil)
	ov := catalog.OverlayTable{110: {Delta: won(8_000_000)}}

	first := ForSingleItem(item, RouteOral, StandardOECD, ov, nil)
	second := ForSingleItem(item, RouteOral, StandardOECD, ov, nil)
	if *first != *second {
		t.Errorf("same inputs produced %d then %d", *first, *second)
	}
	// result must not alias the catalog's stored price
	*first = 0
	if *item.OralPrice != 80_000_000 {
		t.Error("pricing mutated the catalog item")
	}
}

func TestForComboItem(t *testing.T) {
	item := &catalog.Item{ID: 202, Kind: catalog.KindCombo,
		Price2: won(230_000_000), Price3: won(280_000_000), PriceSingle: won(160_000_000)}

	if got := ForComboItem(item, 2); got == nil || *got != 230_000_000 {
		t.Errorf("arity 2 = %v, want 230000000", got)
	}
	if got := ForComboItem(item, 3); got == nil || *got != 280_000_000 {
		t.Errorf("arity 3 = %v, want 280000000", got)
	}
	// arity 4 column empty -> single-item fallback
	if got := ForComboItem(item, 4); got == nil || *got != 160_000_000 {
		t.Errorf("arity 4 fallback = %v, want 160000000", got)
	}

	bare := &catalog.Item{ID: 211, Kind: catalog.KindCombo}
	if got := ForComboItem(bare, 2); got != nil {
		t.Errorf("expected nil with no columns at all, got %d", *got)
	}
}

func TestForFlatItem(t *testing.T) {
	priced := &catalog.Item{ID: 601, Kind: catalog.KindFlat, FlatPrice: won(4_500_000)}
	if got := ForFlatItem(priced); got == nil || *got != 4_500_000 {
		t.Errorf("flat price = %v, want 4500000", got)
	}

	negotiated := &catalog.Item{ID: 901, Kind: catalog.KindFlat}
	if got := ForFlatItem(negotiated); got != nil {
		t.Errorf("expected nil for negotiated item, got %d", *got)
	}
}

func TestForItem_DispatchesByKind(t *testing.T) {
	data := &catalog.ModeData{
		OverlayOral: catalog.OverlayTable{110: {Delta: won(8_000_000)}},
	}

	single := routeItem(110, won(80_000_000), nil)
	ctx := Context{Route: RouteOral, Standard: StandardOECD}
	if got := ForItem(single, ctx, data); got == nil || *got != 88_000_000 {
		t.Errorf("route dispatch = %v, want 88000000", got)
	}

	combo := &catalog.Item{ID: 201, Kind: catalog.KindCombo, Price3: won(150_000_000)}
	ctx = Context{ComboArity: 3}
	if got := ForItem(combo, ctx, data); got == nil || *got != 150_000_000 {
		t.Errorf("combo dispatch = %v, want 150000000", got)
	}

	flat := &catalog.Item{ID: 301, Kind: catalog.KindFlat, FlatPrice: won(140_000_000)}
	if got := ForItem(flat, Context{}, data); got == nil || *got != 140_000_000 {
		t.Errorf("flat dispatch = %v, want 140000000", got)
	}
}
