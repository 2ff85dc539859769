package gossip

import (
	"testing"
)

func TestDecode_Sentinels(t *testing.T) {
	tests := []struct {
		code uint32
		kind Kind
	}{
		{ActionMainMenu, KindMainMenu},
		{ActionRemoveSkills, KindRemoveSkills},
		{ActionStable, KindStable},
		{ActionVendor, KindVendor},
		{ActionNone, KindNone},
		{200, KindNone}, // gap between sentinels and browse ranges
	}

	for _, tc := range tests {
		if got := Decode(tc.code); got.Kind != tc.kind {
			t.Errorf("Decode(%d).Kind = %v, want %v", tc.code, got.Kind, tc.kind)
		}
	}
}

func TestDecode_BrowsePages(t *testing.T) {
	tests := []struct {
		code     uint32
		category Category
		page     int
	}{
		{BrowseNormalBase, CategoryNormal, 1},
		{BrowseNormalBase + 4, CategoryNormal, 5},
		{BrowseExoticBase, CategoryExotic, 1},
		{BrowseRareBase + 1, CategoryRare, 2},
		{BrowseRareExoticBase + 99, CategoryRareExotic, 100},
	}

	for _, tc := range tests {
		in := Decode(tc.code)
		if in.Kind != KindBrowse {
			t.Errorf("Decode(%d).Kind = %v, want KindBrowse", tc.code, in.Kind)
			continue
		}
		if in.Category != tc.category || in.Page != tc.page {
			t.Errorf("Decode(%d) = %v/%d, want %v/%d", tc.code, in.Category, in.Page, tc.category, tc.page)
		}
	}
}

func TestDecode_TrackedRanges(t *testing.T) {
	tests := []struct {
		code uint32
		kind Kind
		page int
		slot int
	}{
		{TrackedMenuBase, KindTrackedMenu, 1, 0},
		{TrackedMenuBase + 2, KindTrackedMenu, 3, 0},
		{TrackedSummonBase, KindTrackedSummon, 0, 0},
		{TrackedSummonBase + 9, KindTrackedSummon, 0, 9},
		{TrackedRenameBase + 3, KindTrackedRename, 0, 3},
		{TrackedDeleteBase + 7, KindTrackedDelete, 0, 7},
	}

	for _, tc := range tests {
		in := Decode(tc.code)
		if in.Kind != tc.kind {
			t.Errorf("Decode(%d).Kind = %v, want %v", tc.code, in.Kind, tc.kind)
			continue
		}
		if in.Page != tc.page || in.Slot != tc.slot {
			t.Errorf("Decode(%d) page/slot = %d/%d, want %d/%d", tc.code, in.Page, in.Slot, tc.page, tc.slot)
		}
	}
}

func TestDecode_AdoptIsTerminalRange(t *testing.T) {
	in := Decode(AdoptBase)
	if in.Kind != KindAdopt || in.Entry != 0 {
		t.Errorf("Decode(AdoptBase) = %+v, want adopt entry 0", in)
	}

	in = Decode(AdoptBase + 601026)
	if in.Kind != KindAdopt || in.Entry != 601026 {
		t.Errorf("Decode(AdoptBase+601026) = %+v, want adopt entry 601026", in)
	}

	// One below the floor must not be an adoption
	if in := Decode(AdoptBase - 1); in.Kind == KindAdopt {
		t.Error("Code below AdoptBase must not decode as adoption")
	}
}

// Every decodable code must round-trip, and no two codes may decode to
// the same intent.
func TestEncodeDecode_RoundTrip(t *testing.T) {
	seen := make(map[Intent]uint32)

	for code := uint32(0); code < AdoptBase+10000; code++ {
		in := Decode(code)
		if in.Kind == KindNone {
			continue
		}
		if enc := Encode(in); enc != code {
			t.Fatalf("Encode(Decode(%d)) = %d", code, enc)
		}
		if prev, dup := seen[in]; dup {
			t.Fatalf("Codes %d and %d decode to the same intent %+v", prev, code, in)
		}
		seen[in] = code
	}
}

func TestRangeOrdering(t *testing.T) {
	// All non-adopt ranges must sit strictly below the adopt floor.
	uppers := []uint32{
		ActionMainMenu,
		ActionRemoveSkills,
		BrowseRareExoticBase + BrowsePageWindow,
		TrackedDeleteBase + TrackedCapacity,
	}
	for _, u := range uppers {
		if u > AdoptBase {
			t.Errorf("Range upper bound %d exceeds AdoptBase %d", u, AdoptBase)
		}
	}
}

// Adopt codes for entries past MaxAdoptEntry would wrap uint32 and land
// in a lower, state-mutating range. The codec must stay in the adopt
// range right up to the bound; the catalog store refuses entries beyond
// it at load time.
func TestAdoptActionBound(t *testing.T) {
	if got := AdoptAction(MaxAdoptEntry); got != ^uint32(0) {
		t.Fatalf("AdoptAction(MaxAdoptEntry) = %d, want %d", got, ^uint32(0))
	}
	in := Decode(AdoptAction(MaxAdoptEntry))
	if in.Kind != KindAdopt || in.Entry != MaxAdoptEntry {
		t.Fatalf("Decode(AdoptAction(MaxAdoptEntry)) = %+v, want adopt of entry %d", in, MaxAdoptEntry)
	}
	if wrapped := AdoptAction(MaxAdoptEntry + 1); wrapped >= AdoptBase {
		t.Errorf("AdoptAction(MaxAdoptEntry+1) = %d, expected a wrap below AdoptBase", wrapped)
	}
}

func TestMaxPage(t *testing.T) {
	tests := []struct {
		n, pageSize, want int
	}{
		{0, 13, 1},
		{1, 13, 1},
		{13, 13, 1},
		{14, 13, 2},
		{26, 13, 2},
		{27, 13, 3},
		{10, 10, 1},
		{11, 10, 2},
	}

	for _, tc := range tests {
		if got := MaxPage(tc.n, tc.pageSize); got != tc.want {
			t.Errorf("MaxPage(%d, %d) = %d, want %d", tc.n, tc.pageSize, got, tc.want)
		}
	}
}

// Every entry must land on exactly one page across 1..MaxPage.
func TestPagination_CoversAllEntries(t *testing.T) {
	for _, n := range []int{1, 12, 13, 14, 25, 26, 27, 100} {
		maxPage := MaxPage(n, PageSize)
		covered := make([]int, n)
		for page := 1; page <= maxPage; page++ {
			start := (page - 1) * PageSize
			end := start + PageSize
			if end > n {
				end = n
			}
			for i := start; i < end; i++ {
				covered[i]++
			}
		}
		for i, c := range covered {
			if c != 1 {
				t.Errorf("n=%d: entry %d covered %d times", n, i, c)
			}
		}
	}
}

func TestCategoryString(t *testing.T) {
	if CategoryRareExotic.String() != "rare-exotic" {
		t.Errorf("Unexpected string: %s", CategoryRareExotic.String())
	}
	if !CategoryExotic.IsExotic() || !CategoryRareExotic.IsExotic() {
		t.Error("Exotic categories should report IsExotic")
	}
	if CategoryNormal.IsExotic() || CategoryRare.IsExotic() {
		t.Error("Non-exotic categories should not report IsExotic")
	}
}
