package path

// Namespace selects which side of a Binding is the lookup key: Guest means
// the path being looked up is expressed in guest terms (and the binding
// table should hand back the matching host prefix); Host is the mirror.
type Namespace int

const (
	Guest Namespace = iota
	Host
)

// Binding is an overlay mapping a guest-side prefix onto a host-side
// prefix. Both sides are absolute, canonical paths.
type Binding struct {
	GuestPath string
	HostPath  string
}

func (b Binding) side(ns Namespace) string {
	if ns == Guest {
		return b.GuestPath
	}
	return b.HostPath
}

func (b Binding) otherSide(ns Namespace) string {
	if ns == Guest {
		return b.HostPath
	}
	return b.GuestPath
}

// Symmetric reports whether the binding maps a path to itself, in which
// case substitution is a no-op by design (e.g. "-b /dev" without a
// separate host target).
func (b Binding) Symmetric() bool {
	return b.GuestPath == b.HostPath
}

// Table is the ordered set of bindings a tracee's rootfs is assembled
// from. It supports longest-prefix lookup from either namespace and
// iteration in insertion order. The zero value is an empty, usable table.
//
// A Table is built once at start-up and is safe for concurrent read-only
// use by multiple tracee goroutines thereafter; it has no internal lock
// because it is never mutated after the supervisor finishes wiring it up.
type Table struct {
	entries []Binding
}

// NewTable builds a table from the given bindings, applied in order (so
// later entries win ties exactly as repeated Insert calls would).
func NewTable(bindings ...Binding) *Table {
	t := &Table{}
	for _, b := range bindings {
		t.Insert(b)
	}
	return t
}

// Insert adds a binding to the table. If an entry with an identical guest
// path already exists, it is replaced (and the replacement is treated as
// freshly inserted, i.e. it moves to the end of iteration order) — this is
// invariant 4 of the path data model: no two entries share a guest prefix,
// and the later entry always wins.
func (t *Table) Insert(b Binding) {
	for i, existing := range t.entries {
		if existing.GuestPath == b.GuestPath {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			break
		}
	}
	t.entries = append(t.entries, b)
}

// Entries returns the bindings in insertion order. The returned slice must
// not be mutated by the caller.
func (t *Table) Entries() []Binding {
	return t.entries
}

// GetPathBinding returns the "other side" prefix of the longest binding
// whose ns-side is a prefix of path, or ok=false if no binding applies.
// Ties (equal-length matching prefixes) are broken in favor of the entry
// inserted later, mirroring PRoot's get_path_binding().
func (t *Table) GetPathBinding(ns Namespace, p string) (prefix string, ok bool) {
	bestLen := -1
	for _, b := range t.entries {
		side := b.side(ns)
		cmp := Compare(side, p)
		if cmp != Equal && cmp != Path1IsPrefix {
			continue
		}
		if len(side) >= bestLen {
			bestLen = len(side)
			prefix = b.otherSide(ns)
			ok = true
		}
	}
	return prefix, ok
}

// SubstituteStatus reports what SubstituteBinding did.
type SubstituteStatus int

const (
	NoMatch SubstituteStatus = iota
	Unchanged
	Substituted
)

// SubstituteBinding rewrites p by replacing the matched ns-side prefix
// with the binding's other side, if any binding applies. It mirrors
// PRoot's substitute_binding(): NoMatch when nothing applies, Unchanged
// when the matching binding is symmetric (so the rewrite would be a
// no-op), Substituted otherwise.
func (t *Table) SubstituteBinding(ns Namespace, p string) (string, SubstituteStatus) {
	bestLen := -1
	var match Binding
	found := false
	for _, b := range t.entries {
		side := b.side(ns)
		cmp := Compare(side, p)
		if cmp != Equal && cmp != Path1IsPrefix {
			continue
		}
		if len(side) >= bestLen {
			bestLen = len(side)
			match = b
			found = true
		}
	}
	if !found {
		return p, NoMatch
	}
	if match.Symmetric() {
		return p, Unchanged
	}

	matchedSide := match.side(ns)
	other := match.otherSide(ns)
	rest := p[len(matchedSide):]

	joined, err := Join(other, rest)
	if err != nil {
		return p, NoMatch
	}
	if joined == "" {
		joined = "/"
	}
	return joined, Substituted
}
