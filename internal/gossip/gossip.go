// Package gossip defines the beastmaster menu protocol: the integer
// action-code address space round-tripped through the client, and the
// ordered item list handed to the session layer on every render.
//
// The transport carries a single integer back from the client, so menu
// identity, operation and page/slot index are packed into disjoint,
// contiguous code ranges. The adopt range is the terminal, highest range
// because adoption codes embed raw creature entries and are unbounded
// above; every other range must stay below AdoptBase.
package gossip

// Icon identifies the client-side icon shown next to a menu item.
type Icon uint8

const (
	IconChat     Icon = 0
	IconVendor   Icon = 1
	IconTaxi     Icon = 2
	IconTrainer  Icon = 3
	IconInteract Icon = 4
	IconMoneyBag Icon = 6
	IconTalk     Icon = 7
	IconBattle   Icon = 9
)

// Category is one of the four mutually exclusive browsing buckets.
type Category int

const (
	CategoryNormal Category = iota
	CategoryExotic
	CategoryRare
	CategoryRareExotic
)

// Categories lists all browsing buckets in display order.
var Categories = []Category{CategoryNormal, CategoryExotic, CategoryRare, CategoryRareExotic}

func (c Category) String() string {
	switch c {
	case CategoryNormal:
		return "normal"
	case CategoryExotic:
		return "exotic"
	case CategoryRare:
		return "rare"
	case CategoryRareExotic:
		return "rare-exotic"
	default:
		return "unknown"
	}
}

// IsExotic reports whether the category requires exotic pet access.
func (c Category) IsExotic() bool {
	return c == CategoryExotic || c == CategoryRareExotic
}

// Action code ranges. Each browse category owns a 100-code page window;
// the tracked ranges each hold TrackedCapacity codes. AdoptBase sits above
// all of them so that decode is unambiguous with two comparisons per range.
const (
	ActionNone         uint32 = 0
	ActionVendor       uint32 = 3
	ActionStable       uint32 = 5
	ActionMainMenu     uint32 = 50
	ActionRemoveSkills uint32 = 80

	BrowseNormalBase     uint32 = 501
	BrowseExoticBase     uint32 = 601
	BrowseRareBase       uint32 = 701
	BrowseRareExoticBase uint32 = 801

	TrackedMenuBase   uint32 = 1000
	TrackedSummonBase uint32 = 2000
	TrackedRenameBase uint32 = 3000
	TrackedDeleteBase uint32 = 4000
	TrackedCapacity   uint32 = 1000

	// AdoptBase is the terminal range: code - AdoptBase is the creature
	// entry being adopted.
	AdoptBase uint32 = 5000

	// MaxAdoptEntry is the largest creature entry an adopt code can carry.
	// AdoptBase+entry wraps past it and would land in a lower range; the
	// catalog store refuses such entries at load time.
	MaxAdoptEntry uint32 = ^uint32(0) - AdoptBase
)

// Page sizes for the two paginated surfaces.
const (
	PageSize        = 13 // catalog browsing
	TrackedPageSize = 10 // tracked-pet menu
)

// BrowsePageWindow is the number of codes reserved per browse category.
// Bucket page counts must stay below it; the catalog store checks this
// invariant at load time.
const BrowsePageWindow = 100

// Menu text identifiers sent with every render.
const (
	MenuTextHello  uint32 = 601026
	MenuTextBrowse uint32 = 601027
)

// browseBase returns the first page's action code for a category.
func browseBase(c Category) uint32 {
	switch c {
	case CategoryExotic:
		return BrowseExoticBase
	case CategoryRare:
		return BrowseRareBase
	case CategoryRareExotic:
		return BrowseRareExoticBase
	default:
		return BrowseNormalBase
	}
}

// Kind tags a decoded intent.
type Kind int

const (
	KindNone Kind = iota
	KindMainMenu
	KindRemoveSkills
	KindStable
	KindVendor
	KindBrowse
	KindAdopt
	KindTrackedMenu
	KindTrackedSummon
	KindTrackedRename
	KindTrackedDelete
)

// Intent is the structured meaning of one action code.
type Intent struct {
	Kind     Kind
	Category Category // KindBrowse
	Page     int      // KindBrowse, KindTrackedMenu (1-based)
	Entry    uint32   // KindAdopt
	Slot     int      // tracked summon/rename/delete (page-local, 0-based)
}

// Decode maps an action code to its intent. Codes outside every range
// decode to KindNone.
func Decode(code uint32) Intent {
	switch {
	case code == ActionMainMenu:
		return Intent{Kind: KindMainMenu}
	case code == ActionRemoveSkills:
		return Intent{Kind: KindRemoveSkills}
	case code == ActionStable:
		return Intent{Kind: KindStable}
	case code == ActionVendor:
		return Intent{Kind: KindVendor}
	case code >= BrowseNormalBase && code < BrowseExoticBase:
		return Intent{Kind: KindBrowse, Category: CategoryNormal, Page: int(code-BrowseNormalBase) + 1}
	case code >= BrowseExoticBase && code < BrowseRareBase:
		return Intent{Kind: KindBrowse, Category: CategoryExotic, Page: int(code-BrowseExoticBase) + 1}
	case code >= BrowseRareBase && code < BrowseRareExoticBase:
		return Intent{Kind: KindBrowse, Category: CategoryRare, Page: int(code-BrowseRareBase) + 1}
	case code >= BrowseRareExoticBase && code < BrowseRareExoticBase+BrowsePageWindow:
		return Intent{Kind: KindBrowse, Category: CategoryRareExotic, Page: int(code-BrowseRareExoticBase) + 1}
	case code >= TrackedMenuBase && code < TrackedSummonBase:
		return Intent{Kind: KindTrackedMenu, Page: int(code-TrackedMenuBase) + 1}
	case code >= TrackedSummonBase && code < TrackedRenameBase:
		return Intent{Kind: KindTrackedSummon, Slot: int(code - TrackedSummonBase)}
	case code >= TrackedRenameBase && code < TrackedDeleteBase:
		return Intent{Kind: KindTrackedRename, Slot: int(code - TrackedRenameBase)}
	case code >= TrackedDeleteBase && code < TrackedDeleteBase+TrackedCapacity:
		return Intent{Kind: KindTrackedDelete, Slot: int(code - TrackedDeleteBase)}
	case code >= AdoptBase:
		return Intent{Kind: KindAdopt, Entry: code - AdoptBase}
	default:
		return Intent{Kind: KindNone}
	}
}

// Encode maps an intent back to its action code. Encode(Decode(c)) == c
// for every decodable code.
func Encode(in Intent) uint32 {
	switch in.Kind {
	case KindMainMenu:
		return ActionMainMenu
	case KindRemoveSkills:
		return ActionRemoveSkills
	case KindStable:
		return ActionStable
	case KindVendor:
		return ActionVendor
	case KindBrowse:
		return browseBase(in.Category) + uint32(in.Page-1)
	case KindAdopt:
		return AdoptBase + in.Entry
	case KindTrackedMenu:
		return TrackedMenuBase + uint32(in.Page-1)
	case KindTrackedSummon:
		return TrackedSummonBase + uint32(in.Slot)
	case KindTrackedRename:
		return TrackedRenameBase + uint32(in.Slot)
	case KindTrackedDelete:
		return TrackedDeleteBase + uint32(in.Slot)
	default:
		return ActionNone
	}
}

// BrowseAction returns the action code for a browse page.
func BrowseAction(c Category, page int) uint32 {
	return browseBase(c) + uint32(page-1)
}

// AdoptAction returns the action code that adopts a catalog entry.
func AdoptAction(entry uint32) uint32 {
	return AdoptBase + entry
}

// TrackedMenuAction returns the action code for a tracked-menu page.
func TrackedMenuAction(page int) uint32 {
	return TrackedMenuBase + uint32(page-1)
}

// Item is one selectable row in a rendered menu.
type Item struct {
	Icon   Icon
	Label  string
	Action uint32
}

// Menu is one render handed to the session layer: a menu text identifier
// plus the ordered list of selectable items.
type Menu struct {
	TextID uint32
	Items  []Item
}

// AddItem appends a selectable row to the menu.
func (m *Menu) AddItem(icon Icon, label string, action uint32) {
	m.Items = append(m.Items, Item{Icon: icon, Label: label, Action: action})
}

// MaxPage returns the number of pages needed for n entries at the given
// page size. An empty list still renders one page.
func MaxPage(n, pageSize int) int {
	if n <= 0 {
		return 1
	}
	return (n + pageSize - 1) / pageSize
}
