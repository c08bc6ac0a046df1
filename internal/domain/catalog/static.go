package catalog

import "context"

// StaticProvider serves the compiled-in catalog tables. Prices are in KRW.
type StaticProvider struct{}

func NewStaticProvider() *StaticProvider { return &StaticProvider{} }

func (p *StaticProvider) ModeData(_ context.Context, mode TestMode) (*ModeData, error) {
	data, ok := builtinCatalog[mode]
	if !ok {
		return nil, ErrUnknownMode
	}
	return data, nil
}

func won(n int64) *int64 { return &n }
func ref(id int) *int    { return &id }

var builtinCatalog = buildCatalog()

func buildCatalog() map[TestMode]*ModeData {
	catalog := map[TestMode]*ModeData{
		ModeSingle:        singleModeData(),
		ModeCombo:         comboModeData(),
		ModeVaccine:       vaccineModeData(),
		ModeScreeningTox:  screeningToxModeData(),
		ModeScreeningEff:  screeningEffModeData(),
		ModeHFIngredient:  hfIngredientModeData(),
		ModeHFProduct:     hfProductModeData(),
		ModeHFProbiotic:   hfProbioticModeData(),
		ModeMedicalDevice: medicalDeviceModeData(),
		ModeCosmeticsFn:   cosmeticsFnModeData(),
		ModeCosmeticsGen:  cosmeticsGenModeData(),
		ModeCellTherapy:   cellTherapyModeData(),
		ModeDocConsult:    docConsultModeData(),
		ModeDocRegister:   docRegisterModeData(),
		ModeDocTranslate:  docTranslateModeData(),
	}
	for _, d := range catalog {
		d.buildIndex()
	}
	return catalog
}

// 단일물질: the only mode with route/standard pricing, relations, and
// OECD overlays. Recovery and TK items live in their own categories and
// are reachable only through a relation entry.
func singleModeData() *ModeData {
	return &ModeData{
		Mode: ModeSingle,
		Categories: []string{
			"단회투여독성", "반복투여독성", "유전독성", "안전성약리", "회복시험", "TK",
		},
		Items: []Item{
			{ID: 101, Name: "단회투여독성시험 (설치류)", Category: "단회투여독성", Species: "랫드", Duration: "2주", Kind: KindRoute,
				OralPrice: won(25_000_000), OralDuration: "2주", IVPrice: won(30_000_000), IVDuration: "2주"},
			{ID: 102, Name: "단회투여독성시험 (비설치류)", Category: "단회투여독성", Species: "비글견", Duration: "2주", Kind: KindRoute,
				OralPrice: won(55_000_000), OralDuration: "2주", IVPrice: won(62_000_000), IVDuration: "2주"},
			{ID: 110, Name: "4주 반복투여독성시험 (설치류)", Category: "반복투여독성", Species: "랫드", Duration: "4주", Kind: KindRoute,
				OralPrice: won(80_000_000), OralDuration: "4주", IVPrice: won(95_000_000), IVDuration: "4주"},
			{ID: 111, Name: "13주 반복투여독성시험 (설치류)", Category: "반복투여독성", Species: "랫드", Duration: "13주", Kind: KindRoute,
				OralPrice: won(160_000_000), OralDuration: "13주", IVPrice: won(185_000_000), IVDuration: "13주"},
			{ID: 112, Name: "26주 반복투여독성시험 (설치류)", Category: "반복투여독성", Species: "랫드", Duration: "26주", Kind: KindRoute,
				OralPrice: won(265_000_000), OralDuration: "26주"}, // 정맥 미제공
			{ID: 113, Name: "4주 반복투여독성시험 (비설치류)", Category: "반복투여독성", Species: "비글견", Duration: "4주", Kind: KindRoute,
				OralPrice: won(170_000_000), OralDuration: "4주", IVPrice: won(190_000_000), IVDuration: "4주"},
			{ID: 120, Name: "복귀돌연변이시험 (Ames)", Category: "유전독성", Kind: KindRoute,
				OralPrice: won(18_000_000)},
			{ID: 121, Name: "염색체이상시험 (CHL)", Category: "유전독성", Kind: KindRoute,
				OralPrice: won(28_000_000)},
			{ID: 122, Name: "소핵시험 (마우스)", Category: "유전독성", Species: "마우스", Duration: "1주", Kind: KindRoute,
				OralPrice: won(30_000_000), IVPrice: won(34_000_000)},
			{ID: 130, Name: "심혈관계 안전성약리시험 (hERG)", Category: "안전성약리", Kind: KindRoute,
				OralPrice: won(24_000_000)},
			{ID: 131, Name: "중추신경계 안전성약리시험 (FOB)", Category: "안전성약리", Species: "랫드", Kind: KindRoute,
				OralPrice: won(32_000_000), IVPrice: won(36_000_000)},

			// 회복시험 (option-only)
			{ID: 150, Name: "회복군 추가 (4주 반복투여)", Category: "회복시험", Species: "랫드", Duration: "2주", Kind: KindRoute,
				OralPrice: won(16_000_000), IVPrice: won(18_000_000)},
			{ID: 151, Name: "회복군 추가 (13주 반복투여)", Category: "회복시험", Species: "랫드", Duration: "4주", Kind: KindRoute,
				OralPrice: won(26_000_000), IVPrice: won(29_000_000)},
			{ID: 152, Name: "회복군 추가 (26주 반복투여)", Category: "회복시험", Species: "랫드", Duration: "4주", Kind: KindRoute,
				OralPrice: won(34_000_000)},

			// TK 채혈/분석 (option-only)
			{ID: 160, Name: "TK 채혈 (경정맥, 4시점)", Category: "TK", Kind: KindRoute, OralPrice: won(9_000_000), IVPrice: won(10_000_000)},
			{ID: 161, Name: "TK 채혈 (경정맥, 6시점)", Category: "TK", Kind: KindRoute, OralPrice: won(12_000_000), IVPrice: won(13_500_000)},
			{ID: 162, Name: "TK 채혈 (미정맥, 4시점)", Category: "TK", Kind: KindRoute, OralPrice: won(8_000_000), IVPrice: won(9_000_000)},
			{ID: 163, Name: "TK 채혈 (미정맥, 6시점)", Category: "TK", Kind: KindRoute, OralPrice: won(10_500_000), IVPrice: won(11_500_000)},
			{ID: 164, Name: "TK 채혈 (경정맥, 4시점, 2회 채취)", Category: "TK", Kind: KindRoute, OralPrice: won(14_000_000), IVPrice: won(15_500_000)},
			{ID: 165, Name: "TK 채혈 (경정맥, 6시점, 2회 채취)", Category: "TK", Kind: KindRoute, OralPrice: won(18_000_000), IVPrice: won(20_000_000)},
			{ID: 166, Name: "TK 채혈 (미정맥, 4시점, 2회 채취)", Category: "TK", Kind: KindRoute, OralPrice: won(12_500_000), IVPrice: won(14_000_000)},
			{ID: 167, Name: "TK 채혈 (미정맥, 6시점, 2회 채취)", Category: "TK", Kind: KindRoute, OralPrice: won(16_000_000), IVPrice: won(17_500_000)},
			{ID: 170, Name: "TK 분석 (LC-MS/MS)", Category: "TK", Kind: KindRoute, OralPrice: won(22_000_000), IVPrice: won(22_000_000)},
			{ID: 171, Name: "TK 시료 보관 및 운송", Category: "TK", Kind: KindRoute, OralPrice: won(3_000_000), IVPrice: won(3_000_000)},
		},
		Relations: map[int]Relation{
			110: {
				MainItemID: 110,
				RecoveryID: ref(150),
				Tree: TKTree{
					"경정맥 채혈": {
						"4시점": {ItemID: 160},
						"6시점": {ItemID: 161},
					},
					"미정맥 채혈": {
						"4시점": {ItemID: 162},
						"6시점": {ItemID: 163},
					},
				},
				TKListIDs:  []int{170, 171},
				TKSingleID: nil,
			},
			111: {
				MainItemID: 111,
				RecoveryID: ref(151),
				Tree: TKTree{
					"경정맥 채혈": {
						"4시점": {Counts: map[string]int{"1회": 160, "2회": 164}},
						"6시점": {Counts: map[string]int{"1회": 161, "2회": 165}},
					},
					"미정맥 채혈": {
						"4시점": {Counts: map[string]int{"1회": 162, "2회": 166}},
						"6시점": {Counts: map[string]int{"1회": 163, "2회": 167}},
					},
				},
				TKListIDs:  []int{171},
				TKSingleID: ref(170),
			},
			112: {
				MainItemID: 112,
				RecoveryID: ref(152),
				Tree: TKTree{
					"경정맥 채혈": {
						"4시점": {Counts: map[string]int{"1회": 160, "2회": 164}},
						"6시점": {Counts: map[string]int{"1회": 161, "2회": 165}},
					},
				},
				TKSingleID: ref(170),
			},
			113: {
				MainItemID: 113,
				RecoveryID: ref(150),
				TKListIDs:  []int{170, 171},
			},
		},
		// OECD 적용 시 가격 조정. OV = 경구, OE = 정맥.
		OverlayOral: OverlayTable{
			110: {Delta: won(8_000_000)},
			111: {Override: won(176_000_000)},
			112: {Delta: won(12_000_000)},
			113: {Delta: won(15_000_000)},
			122: {Delta: won(2_000_000)},
		},
		OverlayIV: OverlayTable{
			110: {Delta: won(9_500_000)},
			111: {Override: won(203_500_000)},
			113: {Delta: won(17_000_000)},
		},
	}
}

func comboModeData() *ModeData {
	return &ModeData{
		Mode:       ModeCombo,
		Categories: []string{"반복투여독성", "유전독성"},
		Items: []Item{
			{ID: 201, Name: "복합제 4주 반복투여독성시험 (설치류)", Category: "반복투여독성", Species: "랫드", Duration: "4주", Kind: KindCombo,
				Price2: won(120_000_000), Price3: won(150_000_000), Price4: won(180_000_000), PriceSingle: won(80_000_000)},
			{ID: 202, Name: "복합제 13주 반복투여독성시험 (설치류)", Category: "반복투여독성", Species: "랫드", Duration: "13주", Kind: KindCombo,
				Price2: won(230_000_000), Price3: won(280_000_000), PriceSingle: won(160_000_000)},
			{ID: 203, Name: "복합제 단회투여독성시험 (설치류)", Category: "반복투여독성", Species: "랫드", Duration: "2주", Kind: KindCombo,
				Price2: won(38_000_000), Price3: won(46_000_000), Price4: won(54_000_000)},
			{ID: 210, Name: "복합제 복귀돌연변이시험", Category: "유전독성", Kind: KindCombo,
				PriceSingle: won(20_000_000)},
			{ID: 211, Name: "복합제 상호작용 평가", Category: "유전독성", Kind: KindCombo},
		},
	}
}

func vaccineModeData() *ModeData {
	return &ModeData{
		Mode:       ModeVaccine,
		Categories: []string{"독성", "면역원성"},
		Items: []Item{
			{ID: 301, Name: "백신 반복투여독성시험 (랫드)", Category: "독성", Species: "랫드", Duration: "6주", Kind: KindFlat, FlatPrice: won(140_000_000)},
			{ID: 302, Name: "백신 생식발생독성시험", Category: "독성", Species: "랫드", Kind: KindFlat, FlatPrice: won(220_000_000)},
			{ID: 303, Name: "면역원성 평가 (ELISA)", Category: "면역원성", Kind: KindFlat, FlatPrice: won(45_000_000)},
			{ID: 304, Name: "아쥬반트 비교 평가", Category: "면역원성", Kind: KindFlat}, // 별도 협의
		},
	}
}

func screeningToxModeData() *ModeData {
	return &ModeData{
		Mode:       ModeScreeningTox,
		Categories: []string{"스크리닝"},
		Items: []Item{
			{ID: 401, Name: "용량결정시험 (DRF, 2주)", Category: "스크리닝", Species: "랫드", Duration: "2주", Kind: KindFlat, FlatPrice: won(28_000_000)},
			{ID: 402, Name: "단회투여 스크리닝", Category: "스크리닝", Species: "마우스", Kind: KindFlat, FlatPrice: won(12_000_000)},
			{ID: 403, Name: "간독성 스크리닝 패널", Category: "스크리닝", Kind: KindFlat, FlatPrice: won(18_000_000)},
		},
	}
}

func screeningEffModeData() *ModeData {
	return &ModeData{
		Mode:       ModeScreeningEff,
		Categories: []string{"유효성"},
		Items: []Item{
			{ID: 451, Name: "항염 효력 스크리닝", Category: "유효성", Species: "마우스", Kind: KindFlat, FlatPrice: won(35_000_000)},
			{ID: 452, Name: "항비만 효력 스크리닝", Category: "유효성", Species: "마우스", Duration: "8주", Kind: KindFlat, FlatPrice: won(55_000_000)},
			{ID: 453, Name: "맞춤형 효력 모델 개발", Category: "유효성", Kind: KindFlat},
		},
	}
}

func hfIngredientModeData() *ModeData {
	return &ModeData{
		Mode:       ModeHFIngredient,
		Categories: []string{"독성", "유전독성"},
		Items: []Item{
			{ID: 501, Name: "건기식 원료 13주 반복투여독성시험", Category: "독성", Species: "랫드", Duration: "13주", Kind: KindFlat, FlatPrice: won(150_000_000)},
			{ID: 502, Name: "건기식 원료 유전독성 3종 패키지", Category: "유전독성", Kind: KindFlat, FlatPrice: won(68_000_000)},
		},
	}
}

func hfProductModeData() *ModeData {
	return &ModeData{
		Mode:       ModeHFProduct,
		Categories: []string{"독성"},
		Items: []Item{
			{ID: 521, Name: "건기식 제품 4주 반복투여독성시험", Category: "독성", Species: "랫드", Duration: "4주", Kind: KindFlat, FlatPrice: won(75_000_000)},
			{ID: 522, Name: "건기식 제품 인체적용시험 지원", Category: "독성", Kind: KindFlat},
		},
	}
}

func hfProbioticModeData() *ModeData {
	return &ModeData{
		Mode:       ModeHFProbiotic,
		Categories: []string{"안전성"},
		Items: []Item{
			{ID: 541, Name: "프로바이오틱스 균주 안전성 평가", Category: "안전성", Kind: KindFlat, FlatPrice: won(42_000_000)},
			{ID: 542, Name: "항생제 내성 평가", Category: "안전성", Kind: KindFlat, FlatPrice: won(15_000_000)},
		},
	}
}

func medicalDeviceModeData() *ModeData {
	return &ModeData{
		Mode:       ModeMedicalDevice,
		Categories: []string{"생물학적 안전성"},
		Items: []Item{
			{ID: 601, Name: "세포독성시험 (ISO 10993-5)", Category: "생물학적 안전성", Kind: KindFlat, FlatPrice: won(4_500_000)},
			{ID: 602, Name: "감작성시험 (ISO 10993-10)", Category: "생물학적 안전성", Species: "기니피그", Kind: KindFlat, FlatPrice: won(14_000_000)},
			{ID: 603, Name: "피내반응시험 (ISO 10993-23)", Category: "생물학적 안전성", Species: "토끼", Kind: KindFlat, FlatPrice: won(8_500_000)},
			{ID: 604, Name: "급성전신독성시험 (ISO 10993-11)", Category: "생물학적 안전성", Species: "마우스", Kind: KindFlat, FlatPrice: won(9_000_000)},
			{ID: 605, Name: "이식시험 (ISO 10993-6, 4주)", Category: "생물학적 안전성", Species: "토끼", Duration: "4주", Kind: KindFlat, FlatPrice: won(28_000_000)},
		},
	}
}

func cosmeticsFnModeData() *ModeData {
	return &ModeData{
		Mode:       ModeCosmeticsFn,
		Categories: []string{"기능성"},
		Items: []Item{
			{ID: 701, Name: "미백 기능성 평가 (in vitro)", Category: "기능성", Kind: KindFlat, FlatPrice: won(16_000_000)},
			{ID: 702, Name: "주름개선 기능성 평가", Category: "기능성", Kind: KindFlat, FlatPrice: won(22_000_000)},
		},
	}
}

func cosmeticsGenModeData() *ModeData {
	return &ModeData{
		Mode:       ModeCosmeticsGen,
		Categories: []string{"안전성"},
		Items: []Item{
			{ID: 721, Name: "피부자극 대체시험 (OECD TG 439)", Category: "안전성", Kind: KindFlat, FlatPrice: won(7_500_000)},
			{ID: 722, Name: "안자극 대체시험 (OECD TG 492)", Category: "안전성", Kind: KindFlat, FlatPrice: won(8_000_000)},
		},
	}
}

func cellTherapyModeData() *ModeData {
	return &ModeData{
		Mode:       ModeCellTherapy,
		Categories: []string{"독성", "종양원성"},
		Items: []Item{
			{ID: 801, Name: "세포치료제 단회투여독성시험 (면역결핍 마우스)", Category: "독성", Species: "NOG 마우스", Kind: KindFlat, FlatPrice: won(95_000_000)},
			{ID: 802, Name: "종양원성시험", Category: "종양원성", Species: "NOG 마우스", Duration: "26주", Kind: KindFlat, FlatPrice: won(320_000_000)},
			{ID: 803, Name: "생체분포시험", Category: "독성", Kind: KindFlat},
		},
	}
}

func docConsultModeData() *ModeData {
	return &ModeData{
		Mode:       ModeDocConsult,
		Categories: []string{"컨설팅"},
		Items: []Item{
			{ID: 901, Name: "IND 전략 컨설팅", Category: "컨설팅", Kind: KindFlat},
			{ID: 902, Name: "비임상시험 디자인 자문", Category: "컨설팅", Kind: KindFlat, FlatPrice: won(5_000_000)},
		},
	}
}

func docRegisterModeData() *ModeData {
	return &ModeData{
		Mode:       ModeDocRegister,
		Categories: []string{"서류작성"},
		Items: []Item{
			{ID: 921, Name: "CTD Module 4 작성", Category: "서류작성", Kind: KindFlat, FlatPrice: won(12_000_000)},
			{ID: 922, Name: "시험계획서/보고서 영문화", Category: "서류작성", Kind: KindFlat, FlatPrice: won(6_000_000)},
		},
	}
}

func docTranslateModeData() *ModeData {
	return &ModeData{
		Mode:       ModeDocTranslate,
		Categories: []string{"번역"},
		Items: []Item{
			{ID: 941, Name: "최종보고서 번역 (국문→영문)", Category: "번역", Kind: KindFlat, FlatPrice: won(4_000_000)},
			{ID: 942, Name: "규제기관 질의응답 번역", Category: "번역", Kind: KindFlat},
		},
	}
}
