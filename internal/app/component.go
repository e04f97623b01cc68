package app

import (
	"github.com/google/uuid"
)

// ComponentId identifies one node in the component tree. Spec's
// REDESIGN FLAGS call out "component tree with cycles (parent/child
// editors, focus back-references): model as ComponentIds in an arena
// owned by the App; weak relations are simply IDs, never raw ownership
// links" — ComponentId is exactly that weak-reference token.
type ComponentId string

// NewComponentId mints a fresh id (grounded on the pack's use of
// google/uuid for arena/correlation ids, e.g. gravwell's generators).
func NewComponentId() ComponentId {
	return ComponentId(uuid.New().String())
}

// ComponentKind is the closed set of component flavors spec §4.10 names.
type ComponentKind uint8

const (
	ComponentEditor ComponentKind = iota
	ComponentPrompt
	ComponentFileExplorer
	ComponentCompletionPopup
	ComponentHoverPanel
	ComponentInfoPanel
	ComponentQuickfixList
)

// Component is one node of the tree: every component kind wraps an
// Editor (spec §4.10: "every component *is* an Editor over some
// buffer"), even non-text surfaces like the quickfix list, which is an
// Editor over a synthetic buffer of its own entries.
type Component struct {
	ID       ComponentId
	Kind     ComponentKind
	BufferID BufferId
	Parent   ComponentId // zero value means no parent (root)
	Children []ComponentId
}
