package catalog

// TestMode selects one product line of the quotation wizard. The mode
// determines which catalog table, category list, and option bar applies.
type TestMode string

const (
	ModeSingle        TestMode = "single"         // 단일물질 독성시험
	ModeCombo         TestMode = "combo"          // 복합제 (2~4성분)
	ModeVaccine       TestMode = "vaccine"        // 백신
	ModeScreeningTox  TestMode = "screening-tox"  // 독성 스크리닝 패널
	ModeScreeningEff  TestMode = "screening-eff"  // 유효성 스크리닝 패널
	ModeHFIngredient  TestMode = "hf-ingredient"  // 건강기능식품 원료
	ModeHFProduct     TestMode = "hf-product"     // 건강기능식품 제품
	ModeHFProbiotic   TestMode = "hf-probiotic"   // 건강기능식품 프로바이오틱스
	ModeMedicalDevice TestMode = "medical-device" // 의료기기 생물학적 안전성
	ModeCosmeticsFn   TestMode = "cosmetics-fn"   // 기능성 화장품
	ModeCosmeticsGen  TestMode = "cosmetics-gen"  // 일반 화장품
	ModeCellTherapy   TestMode = "cell-therapy"   // 세포치료제
	ModeDocConsult    TestMode = "doc-consult"    // 인허가 컨설팅
	ModeDocRegister   TestMode = "doc-register"   // 등록 서류 작성
	ModeDocTranslate  TestMode = "doc-translate"  // 번역
)

// Modes returns every test mode in display order.
func Modes() []TestMode {
	return []TestMode{
		ModeSingle, ModeCombo, ModeVaccine,
		ModeScreeningTox, ModeScreeningEff,
		ModeHFIngredient, ModeHFProduct, ModeHFProbiotic,
		ModeMedicalDevice,
		ModeCosmeticsFn, ModeCosmeticsGen,
		ModeCellTherapy,
		ModeDocConsult, ModeDocRegister, ModeDocTranslate,
	}
}

func (m TestMode) Valid() bool {
	for _, known := range Modes() {
		if m == known {
			return true
		}
	}
	return false
}

// Kind is the pricing shape of a catalog item. Exactly one pricing function
// applies per kind; callers dispatch once at the price engine boundary
// instead of probing fields.
type Kind string

const (
	KindRoute Kind = "route" // priced per administration route and standard
	KindCombo Kind = "combo" // priced per combination arity
	KindFlat  Kind = "flat"  // one flat price, possibly negotiated
)

// Kind returns the pricing shape every item of this mode carries.
func (m TestMode) Kind() Kind {
	switch m {
	case ModeSingle:
		return KindRoute
	case ModeCombo:
		return KindCombo
	default:
		return KindFlat
	}
}

// Item is one priceable unit of a mode's catalog. ID is stable within the
// mode and is the key relations and overlays reference. A nil price means
// the figure is negotiated separately; it is never zero.
type Item struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Species  string `json:"species,omitempty"`
	Duration string `json:"duration,omitempty"` // free text, e.g. "13주"
	Kind     Kind   `json:"kind"`

	// KindRoute: one price per administration route.
	OralPrice    *int64 `json:"oral_price,omitempty"`
	OralDuration string `json:"oral_duration,omitempty"`
	IVPrice      *int64 `json:"iv_price,omitempty"`
	IVDuration   string `json:"iv_duration,omitempty"`

	// KindCombo: one price per combination arity, with an optional
	// single-item fallback.
	Price2      *int64 `json:"price_2,omitempty"`
	Price3      *int64 `json:"price_3,omitempty"`
	Price4      *int64 `json:"price_4,omitempty"`
	PriceSingle *int64 `json:"price_single,omitempty"`

	// KindFlat
	FlatPrice *int64 `json:"flat_price,omitempty"`
}

// Overlay adjusts one item's base route price under the OECD-aligned
// standard. Override replaces the base figure; otherwise Delta is added.
type Overlay struct {
	Override *int64 `json:"override,omitempty"`
	Delta    *int64 `json:"delta,omitempty"`
}

// OverlayTable maps catalog item id to its OECD adjustment. Absence of an
// entry means the base price applies unchanged.
type OverlayTable map[int]Overlay

// TKNode is the layer a method/points pair resolves to. ItemID serves
// 2-level trees; Counts (draws-per-point name -> item id) serves 3-level
// trees. Which one applies is the resolver's decision, not the data's.
type TKNode struct {
	ItemID int            `json:"item_id,omitempty"`
	Counts map[string]int `json:"counts,omitempty"`
}

// TKTree is the nested TK sampling option lookup:
// sampling method name -> sampling point count name -> node.
type TKTree map[string]map[string]TKNode

// Relation links one main test to its permissible add-ons. A relation
// exists only for main tests that legitimately support options; absence
// means nothing is offered.
type Relation struct {
	MainItemID int    `json:"main_item_id"`
	RecoveryID *int   `json:"recovery_id,omitempty"`
	Tree       TKTree `json:"tree,omitempty"`
	TKListIDs  []int  `json:"tk_list_ids,omitempty"`
	TKSingleID *int   `json:"tk_single_id,omitempty"`
}

// ModeData is the immutable catalog snapshot for one mode session.
type ModeData struct {
	Mode        TestMode         `json:"mode"`
	Items       []Item           `json:"items"`
	Categories  []string         `json:"categories"`
	Relations   map[int]Relation `json:"relations,omitempty"`
	OverlayOral OverlayTable     `json:"overlay_oral,omitempty"` // "OV" table
	OverlayIV   OverlayTable     `json:"overlay_iv,omitempty"`   // "OE" table

	index map[int]int // item id -> position in Items
}

func (d *ModeData) buildIndex() {
	d.index = make(map[int]int, len(d.Items))
	for i := range d.Items {
		d.index[d.Items[i].ID] = i
	}
}

// Item returns the catalog item with the given id, or nil.
func (d *ModeData) Item(id int) *Item {
	if d.index == nil {
		d.buildIndex()
	}
	i, ok := d.index[id]
	if !ok {
		return nil
	}
	return &d.Items[i]
}

// Relation returns the relation entry for a main test id, if any.
func (d *ModeData) Relation(mainID int) (Relation, bool) {
	rel, ok := d.Relations[mainID]
	return rel, ok
}

// FilterByCategory returns the items of one category in catalog order.
// An empty category returns everything.
func (d *ModeData) FilterByCategory(category string) []Item {
	if category == "" {
		return d.Items
	}
	var out []Item
	for _, it := range d.Items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out
}
