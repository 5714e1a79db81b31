package counter

// SourceKind classifies where a counted item was found. The set is closed;
// reports materialize a section for every kind, present or not.
type SourceKind int

const (
	KindBlockEntity SourceKind = iota
	KindEntity
	KindPlayer
)

func (k SourceKind) String() string {
	switch k {
	case KindBlockEntity:
		return "block_entity"
	case KindEntity:
		return "entity"
	case KindPlayer:
		return "player"
	}
	return "unknown"
}

// Display is the human-readable form used in table section headers.
func (k SourceKind) Display() string {
	switch k {
	case KindBlockEntity:
		return "Block Entity"
	case KindEntity:
		return "Entity"
	case KindPlayer:
		return "Player Data"
	}
	return "Unknown"
}

// Kinds returns every SourceKind in report order.
func Kinds() []SourceKind {
	return []SourceKind{KindBlockEntity, KindEntity, KindPlayer}
}

// Scope is the (dimension, kind) pair a counter fragment is grouped under.
type Scope struct {
	Dimension string
	Kind      SourceKind
}

// Map groups Counters by Scope. Like Counter it is a commutative monoid
// under merging, so per-worker fragments fold in any order.
type Map struct {
	scopes map[Scope]*Counter
}

func NewMap() *Map {
	return &Map{scopes: make(map[Scope]*Counter)}
}

// MergeScope adds a fragment under scope, combining with whatever is
// already there.
func (m *Map) MergeScope(scope Scope, c *Counter) {
	existing, ok := m.scopes[scope]
	if !ok {
		existing = New()
		m.scopes[scope] = existing
	}
	existing.Merge(c)
}

// Merge folds every scoped counter of other into m.
func (m *Map) Merge(other *Map) {
	for scope, c := range other.scopes {
		m.MergeScope(scope, c)
	}
}

// Combined folds all scoped counters into a single Counter.
func (m *Map) Combined() *Counter {
	combined := New()
	for _, c := range m.scopes {
		combined.Merge(c)
	}
	return combined
}

// Scopes exposes the scope-to-counter map. Callers must treat it as a
// read-only view.
func (m *Map) Scopes() map[Scope]*Counter {
	return m.scopes
}

func (m *Map) IsEmpty() bool {
	for _, c := range m.scopes {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}
