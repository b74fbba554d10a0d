package ccworld

import "sort"

// All is the sentinel naming every registered class, usable anywhere a peer
// set is expected (ignores/enter/exit/pre/post, or a query filter).
const All = "All"

// PeerSet names a set of peer classes, either as an explicit name list or
// as All minus an Except list. Construct with Classes(...) or AllExcept(...).
type PeerSet struct {
	all    bool
	names  []string
	except []string
}

// Classes builds an explicit peer set out of the given class names.
func Classes(names ...string) PeerSet {
	return PeerSet{names: append([]string(nil), names...)}
}

// AllExcept builds the sentinel "All, except = {...}" peer set.
func AllExcept(names ...string) PeerSet {
	return PeerSet{all: true, except: append([]string(nil), names...)}
}

// AllClasses is the bare "All" peer set with nothing excepted.
func AllClasses() PeerSet {
	return PeerSet{all: true}
}

// isZero reports whether the set was never populated (Go zero value),
// distinct from an explicitly empty Classes() list.
func (s PeerSet) isZero() bool {
	return !s.all && s.names == nil && s.except == nil
}

// resolve expands the sentinel against the universe of currently known
// class names, always excluding self regardless of an except list.
func (s PeerSet) resolve(self string, universe []string) map[string]bool {
	out := make(map[string]bool, len(universe))
	if s.all {
		except := make(map[string]bool, len(s.except))
		for _, n := range s.except {
			except[n] = true
		}
		for _, n := range universe {
			if n == self || except[n] {
				continue
			}
			out[n] = true
		}
		return out
	}
	for _, n := range s.names {
		if n == self {
			continue
		}
		out[n] = true
	}
	return out
}

// ClassSpec declares one collision class's filter and event policy.
//
// Ignores is the set of classes this class refuses to physically contact.
// Enter/Exit/Pre/Post are the peer sets that generate each event kind; when
// a set is the PeerSet zero value (isZero), implicit mode defaults it to
// AllClasses() and explicit mode defaults it to Classes() (nobody).
type ClassSpec struct {
	Ignores PeerSet
	Enter   PeerSet
	Exit    PeerSet
	Pre     PeerSet
	Post    PeerSet
}

// ClassTable is a named collection of ClassSpecs, as accepted by
// World.AddCollisionClassTable and produced by LoadClassTableFile.
type ClassTable map[string]ClassSpec

// classState is the registry's resolved bookkeeping for one class, kept in
// registration order so the compiler's "first-seen" tie-break for grouping
// classes into the same category is deterministic.
type classState struct {
	name     string
	spec     ClassSpec
	category int
	mask     uint32
}

// classRegistry owns classes in registration order and the compiled
// category/mask assignment. It has no knowledge of fixtures or bodies —
// that wiring lives in World.
type classRegistry struct {
	order    []string
	byName   map[string]*classState
	explicit bool
	frozen   bool

	// expandedIgnores[a][b] is true iff class a's resolved ignore set
	// contains b. Rebuilt by recompile(); read by routingTable for its
	// sensor-pair classification.
	expandedIgnores map[string]map[string]bool
}

func newClassRegistry() *classRegistry {
	return &classRegistry{byName: make(map[string]*classState)}
}

func (r *classRegistry) names() []string {
	return append([]string(nil), r.order...)
}

func (r *classRegistry) has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

func (r *classRegistry) get(name string) (*classState, bool) {
	cs, ok := r.byName[name]
	return cs, ok
}

// setExplicit switches the implicit/explicit default for Enter/Exit/Pre/Post
// peer sets; forbidden once any class has been registered through add()
// (the bootstrapped Default class does not count).
func (r *classRegistry) setExplicit(explicit bool) error {
	if r.frozen {
		return ErrFrozenConfig
	}
	r.explicit = explicit
	return nil
}

// add registers a new class, applying the implicit/explicit default to any
// zero-value event peer set, then recompiles categories/masks for every
// class. Returns ErrDuplicateClass if the name already exists. Freezes the
// implicit/explicit toggle, since a real (non-bootstrap) class now exists.
func (r *classRegistry) add(name string, spec ClassSpec) error {
	return r.addLocked(name, spec, true)
}

// bootstrapDefault registers the "Default" class the way New() does, without
// freezing the implicit/explicit toggle: Default is plumbing every World
// carries from construction, not a class the caller chose, so its presence
// alone must not make SetExplicitCollisionEvents permanently unreachable.
func (r *classRegistry) bootstrapDefault(spec ClassSpec) error {
	return r.addLocked("Default", spec, false)
}

func (r *classRegistry) addLocked(name string, spec ClassSpec, freeze bool) error {
	if r.has(name) {
		return ErrDuplicateClass
	}
	def := Classes()
	if !r.explicit {
		def = AllClasses()
	}
	if spec.Enter.isZero() {
		spec.Enter = def
	}
	if spec.Exit.isZero() {
		spec.Exit = def
	}
	if spec.Pre.isZero() {
		spec.Pre = def
	}
	if spec.Post.isZero() {
		spec.Post = def
	}
	r.order = append(r.order, name)
	r.byName[name] = &classState{name: name, spec: spec}
	if freeze {
		r.frozen = true
	}
	if err := r.recompile(); err != nil {
		r.order = r.order[:len(r.order)-1]
		delete(r.byName, name)
		return err
	}
	return nil
}

// replaceTable discards every registered class and re-registers from
// table, re-adding "Default" first (from table if present, otherwise with
// a zero ClassSpec) so it keeps category 1. Used by the hot-reload watcher,
// where a changed file describes the *entire* desired table
// rather than an incremental addition.
func (r *classRegistry) replaceTable(table ClassTable) error {
	r.order = nil
	r.byName = make(map[string]*classState)
	var defaultSpec ClassSpec
	if spec, ok := table["Default"]; ok {
		defaultSpec = spec
	}
	if err := r.add("Default", defaultSpec); err != nil {
		return err
	}
	keys := make([]string, 0, len(table))
	for k := range table {
		if k == "Default" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := r.add(k, table[k]); err != nil {
			return err
		}
	}
	return nil
}

// addTable registers many classes at once in sorted name order, so the
// concrete category numbers a table produces do not depend on Go's
// randomized map iteration.
func (r *classRegistry) addTable(table ClassTable) error {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := r.add(k, table[k]); err != nil {
			return err
		}
	}
	return nil
}
