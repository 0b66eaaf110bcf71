package inventory

import "slotter/internal/imagemeta"

// Group names an orientation bucket or the unfiltered set.
type Group string

const (
	GroupLandscape Group = "landscape"
	GroupPortrait  Group = "portrait"
	GroupAll       Group = "all"
)

// Groups lists every group in materialization order.
var Groups = []Group{GroupLandscape, GroupPortrait, GroupAll}

// Handle indexes an Item inside a Library arena.
type Handle int

// Item identifies one classified source image. Orientation is assigned once
// by the scanner; ArtifactName is assigned once by the materializer in
// indirect mode and stays empty otherwise.
type Item struct {
	SourcePath   string
	Orientation  imagemeta.Orientation
	ArtifactName string
}

// Library owns the item arena and the per-group handle sequences built
// during a scan.
type Library struct {
	items  []Item
	groups map[Group][]Handle
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{groups: make(map[Group][]Handle)}
}

// Add appends an item to the arena and registers it with its orientation
// group and the all group.
func (l *Library) Add(item Item) Handle {
	h := Handle(len(l.items))
	l.items = append(l.items, item)

	group := GroupPortrait
	if item.Orientation == imagemeta.Landscape {
		group = GroupLandscape
	}
	l.groups[group] = append(l.groups[group], h)
	l.groups[GroupAll] = append(l.groups[GroupAll], h)
	return h
}

// Item returns a mutable reference into the arena. Mutations (artifact name
// assignment) are visible through every group holding the handle.
func (l *Library) Item(h Handle) *Item {
	return &l.items[h]
}

// Len reports the total number of classified items.
func (l *Library) Len() int {
	return len(l.items)
}

// Handles returns the ordered handle sequence for a group. The slice is
// owned by the library and must not be mutated.
func (l *Library) Handles(g Group) []Handle {
	return l.groups[g]
}

// Count reports the number of items in a group.
func (l *Library) Count(g Group) int {
	return len(l.groups[g])
}

// MaterializedGroups lists the groups that contain at least one item, in
// materialization order. Empty groups are skipped entirely: no output
// directory and no routing rule block.
func (l *Library) MaterializedGroups() []Group {
	out := make([]Group, 0, len(Groups))
	for _, g := range Groups {
		if l.Count(g) > 0 {
			out = append(out, g)
		}
	}
	return out
}

// MaxGroupCount reports the largest materialized group size. Keyspace width
// is sized from this value once, after the whole scan resolves, so that
// skipped files can never influence coverage.
func (l *Library) MaxGroupCount() int {
	maxCount := 0
	for _, g := range Groups {
		if c := l.Count(g); c > maxCount {
			maxCount = c
		}
	}
	return maxCount
}
