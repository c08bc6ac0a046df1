package relation

import (
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/ddongsuya/chemonmanagement-sub003/internal/domain/catalog"
	"github.com/ddongsuya/chemonmanagement-sub003/internal/domain/pricing"
)

func won(n int64) *int64 { return &n }
func ref(id int) *int    { return &id }

// testModeData builds a small single-substance snapshot with one 4-week
// parent (2-level tree) and one 13-week parent (3-level tree).
func testModeData() *catalog.ModeData {
	data := &catalog.ModeData{
		Mode: catalog.ModeSingle,
		Items: []catalog.Item{
			{ID: 110, Name: "4주 반복투여", Duration: "4주", Kind: catalog.KindRoute, OralPrice: won(80_000_000)},
			{ID: 111, Name: "13주 반복투여", Duration: "13주", Kind: catalog.KindRoute, OralPrice: won(160_000_000)},
			{ID: 150, Name: "회복군", Kind: catalog.KindRoute, OralPrice: won(16_000_000)},
			{ID: 160, Name: "TK 4시점", Kind: catalog.KindRoute, OralPrice: won(9_000_000)},
			{ID: 161, Name: "TK 6시점", Kind: catalog.KindRoute, OralPrice: won(12_000_000)},
			{ID: 164, Name: "TK 4시점 2회", Kind: catalog.KindRoute, OralPrice: won(14_000_000)},
			{ID: 170, Name: "TK 분석", Kind: catalog.KindRoute, OralPrice: won(22_000_000)},
		},
		Relations: map[int]catalog.Relation{
			110: {
				MainItemID: 110,
				RecoveryID: ref(150),
				Tree: catalog.TKTree{
					"경정맥": {
						"4시점": {ItemID: 160},
						"6시점": {ItemID: 161},
					},
				},
				TKListIDs: []int{170},
			},
			111: {
				MainItemID: 111,
				RecoveryID: ref(150),
				Tree: catalog.TKTree{
					"경정맥": {
						"4시점": {Counts: map[string]int{"1회": 160, "2회": 164}},
					},
				},
				TKSingleID: ref(170),
			},
		},
	}
	return data
}

func notAdded(int) bool { return false }

func TestDurationWeeks(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"4주", 4},
		{"13주", 13},
		{"26주", 26},
		{"2주 반복", 2},
		{"", 0},
		{"주", 0},
		{"약 4주", 0},    // not leading
		{"4 주", 0},     // digit not immediately followed by marker
		{"13weeks", 0}, // wrong marker
		{"107주", 107},
	}
	for _, tc := range cases {
		if got := DurationWeeks(tc.in); got != tc.want {
			t.Errorf("DurationWeeks(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestNeedsThirdLevel(t *testing.T) {
	data := testModeData()
	if NeedsThirdLevel(data.Item(110)) {
		t.Error("4-week parent must use the 2-level tree")
	}
	if !NeedsThirdLevel(data.Item(111)) {
		t.Error("13-week parent must use the 3-level tree")
	}
	if NeedsThirdLevel(&catalog.Item{Duration: "미정"}) {
		t.Error("unparseable duration must count as 0 weeks")
	}
}

func TestOffers_RecoveryAndListAndSingle(t *testing.T) {
	r := NewResolver(testModeData())
	pctx := pricing.Context{Route: pricing.RouteOral, Standard: pricing.StandardGLP}

	offers := r.Offers(110, pctx, notAdded)
	if len(offers) != 2 {
		t.Fatalf("expected recovery + 1 list offer, got %d", len(offers))
	}
	if offers[0].Source != OfferRecovery || offers[0].Item.ID != 150 {
		t.Errorf("first offer should be recovery 150, got %s %d", offers[0].Source, offers[0].Item.ID)
	}
	if offers[0].Price == nil || *offers[0].Price != 16_000_000 {
		t.Errorf("recovery priced %v, want 16000000", offers[0].Price)
	}
	if offers[1].Source != OfferTKList || offers[1].Item.ID != 170 {
		t.Errorf("second offer should be tk-list 170, got %s %d", offers[1].Source, offers[1].Item.ID)
	}

	offers = r.Offers(111, pctx, notAdded)
	if len(offers) != 2 {
		t.Fatalf("expected recovery + tk-single, got %d", len(offers))
	}
	if offers[1].Source != OfferTKSingle || offers[1].Item.ID != 170 {
		t.Errorf("expected tk-single 170, got %s %d", offers[1].Source, offers[1].Item.ID)
	}
}

func TestOffers_SuppressesAlreadyAdded(t *testing.T) {
	r := NewResolver(testModeData())
	pctx := pricing.Context{Route: pricing.RouteOral, Standard: pricing.StandardGLP}

	offers := r.Offers(110, pctx, func(id int) bool { return id == 150 })
	for _, o := range offers {
		if o.Item.ID == 150 {
			t.Error("already-added recovery test offered again")
		}
	}
	if len(offers) != 1 {
		t.Errorf("expected 1 remaining offer, got %d", len(offers))
	}
}

func TestOffers_NoRelationMeansNothing(t *testing.T) {
	r := NewResolver(testModeData())
	pctx := pricing.DefaultContext()

	if offers := r.Offers(160, pctx, notAdded); offers != nil {
		t.Errorf("item without relation entry must offer nothing, got %d offers", len(offers))
	}
}

func TestTreeNavigation_TwoLevel(t *testing.T) {
	r := NewResolver(testModeData())

	if got := r.Methods(110); !reflect.DeepEqual(got, []string{"경정맥"}) {
		t.Errorf("Methods = %v", got)
	}
	if got := r.Points(110, "경정맥"); !reflect.DeepEqual(got, []string{"4시점", "6시점"}) {
		t.Errorf("Points = %v", got)
	}
	// 4-week parent: no third level even though navigation asks
	if got := r.Counts(110, "경정맥", "4시점"); got != nil {
		t.Errorf("2-level parent exposed counts: %v", got)
	}

	item, ok := r.Resolve(110, Pick{Method: "경정맥", Points: "6시점"})
	if !ok || item.ID != 161 {
		t.Fatalf("Resolve = %v %v, want item 161", item, ok)
	}
}

func TestTreeNavigation_ThreeLevel(t *testing.T) {
	r := NewResolver(testModeData())

	if got := r.Counts(111, "경정맥", "4시점"); !reflect.DeepEqual(got, []string{"1회", "2회"}) {
		t.Errorf("Counts = %v", got)
	}

	item, ok := r.Resolve(111, Pick{Method: "경정맥", Points: "4시점", Count: "2회"})
	if !ok || item.ID != 164 {
		t.Fatalf("Resolve = %v %v, want item 164", item, ok)
	}

	// Count required at 13 weeks: an incomplete pick resolves nothing.
	if _, ok := r.Resolve(111, Pick{Method: "경정맥", Points: "4시점"}); ok {
		t.Error("3-level parent resolved without a count")
	}
}

func TestResolve_MissingBranchIsSilent(t *testing.T) {
	r := NewResolver(testModeData())

	if _, ok := r.Resolve(110, Pick{Method: "없는방법", Points: "4시점"}); ok {
		t.Error("unknown method resolved")
	}
	if _, ok := r.Resolve(110, Pick{Method: "경정맥", Points: "9시점"}); ok {
		t.Error("unknown points resolved")
	}
	if _, ok := r.Resolve(111, Pick{Method: "경정맥", Points: "4시점", Count: "9회"}); ok {
		t.Error("unknown count resolved")
	}
	if _, ok := r.Resolve(999, Pick{Method: "경정맥", Points: "4시점"}); ok {
		t.Error("unknown main item resolved")
	}
}

func TestPickState_ChooseAndReset(t *testing.T) {
	r := NewResolver(testModeData())
	parent := uuid.New()

	r.ChooseMethod(parent, "경정맥")
	r.ChoosePoints(parent, "4시점")
	r.ChooseCount(parent, "2회")

	got := r.PickFor(parent)
	want := Pick{Method: "경정맥", Points: "4시점", Count: "2회"}
	if got != want {
		t.Errorf("PickFor = %+v, want %+v", got, want)
	}

	// choosing a new method clears the deeper levels
	r.ChooseMethod(parent, "미정맥")
	if got := r.PickFor(parent); got.Points != "" || got.Count != "" {
		t.Errorf("method change kept deeper levels: %+v", got)
	}

	r.ResetPick(parent)
	if got := r.PickFor(parent); got != (Pick{}) {
		t.Errorf("expected empty pick after reset, got %+v", got)
	}

	// other parents are untouched by resets
	other := uuid.New()
	r.ChooseMethod(other, "경정맥")
	r.ResetPick(parent)
	if got := r.PickFor(other); got.Method != "경정맥" {
		t.Errorf("reset leaked across parents: %+v", got)
	}
}
