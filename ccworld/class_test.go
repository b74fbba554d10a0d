package ccworld

import "testing"

func TestPeerSetResolve(t *testing.T) {
	universe := []string{"A", "B", "C", "D"}

	cases := []struct {
		name string
		set  PeerSet
		self string
		want map[string]bool
	}{
		{
			name: "explicit_list_excludes_self",
			set:  Classes("A", "B"),
			self: "A",
			want: map[string]bool{"B": true},
		},
		{
			name: "all_classes_excludes_self",
			set:  AllClasses(),
			self: "C",
			want: map[string]bool{"A": true, "B": true, "D": true},
		},
		{
			name: "all_except",
			set:  AllExcept("B", "D"),
			self: "A",
			want: map[string]bool{"C": true},
		},
		{
			name: "except_does_not_resurrect_self",
			set:  AllExcept("A"),
			self: "A",
			want: map[string]bool{"B": true, "C": true, "D": true},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := c.set.resolve(c.self, universe)
			if len(got) != len(c.want) {
				t.Fatalf("resolve() = %v, want %v", got, c.want)
			}
			for k := range c.want {
				if !got[k] {
					t.Fatalf("resolve() missing %q: got %v", k, got)
				}
			}
		})
	}
}

func TestPeerSetIsZero(t *testing.T) {
	var zero PeerSet
	if !zero.isZero() {
		t.Fatalf("zero value PeerSet should be isZero")
	}
	if Classes().isZero() {
		t.Fatalf("an explicitly empty Classes() list should not be isZero")
	}
	if AllClasses().isZero() {
		t.Fatalf("AllClasses() should not be isZero")
	}
}

func TestClassRegistryAddDuplicate(t *testing.T) {
	r := newClassRegistry()
	if err := r.add("Player", ClassSpec{}); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if err := r.add("Player", ClassSpec{}); err != ErrDuplicateClass {
		t.Fatalf("expected ErrDuplicateClass, got %v", err)
	}
}

func TestClassRegistryImplicitVsExplicitDefaults(t *testing.T) {
	t.Run("implicit_defaults_to_all", func(t *testing.T) {
		r := newClassRegistry()
		if err := r.add("A", ClassSpec{}); err != nil {
			t.Fatal(err)
		}
		if err := r.add("B", ClassSpec{}); err != nil {
			t.Fatal(err)
		}
		cs, _ := r.get("A")
		if !cs.spec.Enter.all {
			t.Fatalf("expected implicit-mode Enter to default to AllClasses()")
		}
	})

	t.Run("explicit_defaults_to_nobody", func(t *testing.T) {
		r := newClassRegistry()
		if err := r.setExplicit(true); err != nil {
			t.Fatal(err)
		}
		if err := r.add("A", ClassSpec{}); err != nil {
			t.Fatal(err)
		}
		cs, _ := r.get("A")
		if cs.spec.Enter.all || len(cs.spec.Enter.names) != 0 {
			t.Fatalf("expected explicit-mode Enter to default to Classes() (nobody)")
		}
	})

	t.Run("cannot_change_after_first_class", func(t *testing.T) {
		r := newClassRegistry()
		if err := r.add("A", ClassSpec{}); err != nil {
			t.Fatal(err)
		}
		if err := r.setExplicit(true); err != ErrFrozenConfig {
			t.Fatalf("expected ErrFrozenConfig, got %v", err)
		}
	})
}

func TestClassRegistryReplaceTablePreservesDefaultCategory(t *testing.T) {
	r := newClassRegistry()
	if err := r.add("Default", ClassSpec{}); err != nil {
		t.Fatal(err)
	}
	if err := r.add("Enemy", ClassSpec{}); err != nil {
		t.Fatal(err)
	}

	table := ClassTable{
		"Player": {},
		"Enemy":  {},
	}
	if err := r.replaceTable(table); err != nil {
		t.Fatalf("replaceTable failed: %v", err)
	}
	if !r.has("Default") {
		t.Fatalf("replaceTable must always keep Default registered")
	}
	if !r.has("Player") || !r.has("Enemy") {
		t.Fatalf("replaceTable did not register the new table's classes")
	}
	def, _ := r.get("Default")
	if def.category != 1 {
		t.Fatalf("expected Default to keep category 1 (first registered), got %d", def.category)
	}

	// A second reload of an identical table must not fail with
	// ErrDuplicateClass — this is the whole point of replaceTable.
	if err := r.replaceTable(table); err != nil {
		t.Fatalf("second replaceTable of the same table failed: %v", err)
	}
}

func TestClassRegistryAddTableDeterministicOrder(t *testing.T) {
	r := newClassRegistry()
	table := ClassTable{
		"Zebra": {},
		"Alpha": {},
		"Mango": {},
	}
	if err := r.addTable(table); err != nil {
		t.Fatal(err)
	}
	want := []string{"Alpha", "Mango", "Zebra"}
	got := r.names()
	if len(got) != len(want) {
		t.Fatalf("names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("names() = %v, want %v", got, want)
		}
	}
}
