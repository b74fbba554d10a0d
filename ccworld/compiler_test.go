package ccworld

import "testing"

func TestRecompileMaskIsAcceptSet(t *testing.T) {
	// Player ignores Enemy; Ground ignores nobody.
	r := newClassRegistry()
	if err := r.add("Player", ClassSpec{Ignores: Classes("Enemy")}); err != nil {
		t.Fatal(err)
	}
	if err := r.add("Enemy", ClassSpec{}); err != nil {
		t.Fatal(err)
	}
	if err := r.add("Ground", ClassSpec{}); err != nil {
		t.Fatal(err)
	}

	player, _ := r.get("Player")
	enemy, _ := r.get("Enemy")
	ground, _ := r.get("Ground")

	if player.mask&categoryBit(enemy.category) != 0 {
		t.Fatalf("Player's mask must not accept Enemy's category")
	}
	if player.mask&categoryBit(ground.category) == 0 {
		t.Fatalf("Player's mask must accept Ground's category")
	}
	// Symmetry: cp's filter is a two-sided AND, so one side excluding the
	// other's category is enough to prevent contact regardless of what the
	// other side's own mask says.
	if enemy.mask&categoryBit(player.category) == 0 {
		t.Fatalf("Enemy did not declare Player as ignored, so its mask should still accept Player's category")
	}
}

func TestRecompileGroupsIdenticalIncomingIgnoreVectors(t *testing.T) {
	r := newClassRegistry()
	// Nothing ignores A or B, so they share an (empty) incoming-ignore
	// vector and should be assigned the same category.
	if err := r.add("A", ClassSpec{}); err != nil {
		t.Fatal(err)
	}
	if err := r.add("B", ClassSpec{}); err != nil {
		t.Fatal(err)
	}
	// C is ignored by nobody either... so add a class that ignores C to
	// give it a distinct incoming vector.
	if err := r.add("C", ClassSpec{}); err != nil {
		t.Fatal(err)
	}
	if err := r.add("D", ClassSpec{Ignores: Classes("C")}); err != nil {
		t.Fatal(err)
	}

	a, _ := r.get("A")
	b, _ := r.get("B")
	c, _ := r.get("C")

	if a.category != b.category {
		t.Fatalf("A and B share an identical incoming-ignore vector and should share a category: A=%d B=%d", a.category, b.category)
	}
	if a.category == c.category {
		t.Fatalf("C is ignored by D while A is not, so they must not share a category")
	}
}

func TestRecompileCategoryOverflow(t *testing.T) {
	r := newClassRegistry()
	// Each class Ci is ignored by exactly one distinct class, giving every
	// Ci a unique incoming-ignore vector and forcing more than
	// maxCategories distinct categories once enough are registered.
	var overflowErr error
	for i := 0; i < maxCategories+1; i++ {
		name := string(rune('A' + i))
		ignorer := "X" + name
		if err := r.add(name, ClassSpec{}); err != nil {
			overflowErr = err
		}
		if err := r.add(ignorer, ClassSpec{Ignores: Classes(name)}); err != nil {
			overflowErr = err
		}
	}
	if overflowErr == nil {
		t.Fatalf("expected ErrCategoryOverflow once more than %d distinct categories are needed", maxCategories)
	}
}

func TestAddRollsBackOnRecompileFailure(t *testing.T) {
	r := newClassRegistry()
	// maxCategories-1 ignored classes, each with its own incoming-ignore
	// vector, plus the ignorers' shared empty vector use every category.
	for i := 0; i < maxCategories-1; i++ {
		name := string(rune('A' + i))
		ignorer := "X" + name
		if err := r.add(name, ClassSpec{}); err != nil {
			t.Fatal(err)
		}
		if err := r.add(ignorer, ClassSpec{Ignores: Classes(name)}); err != nil {
			t.Fatal(err)
		}
	}

	before := len(r.order)
	// Ignoring XA gives XA an incoming-ignore vector of its own, which needs
	// one category more than the limit.
	if err := r.add("Overflow", ClassSpec{Ignores: Classes("XA")}); err == nil {
		t.Fatalf("expected an overflow error on the class that exceeds the limit")
	}
	if r.has("Overflow") {
		t.Fatalf("a class whose add() failed must not remain registered")
	}
	if len(r.order) != before {
		t.Fatalf("order grew from %d to %d despite the failed add", before, len(r.order))
	}

	// The registry must still be usable afterward: re-adding an existing
	// name fails with ErrDuplicateClass, not a leftover-state panic.
	if err := r.add("A", ClassSpec{}); err != ErrDuplicateClass {
		t.Fatalf("expected ErrDuplicateClass for an already-registered name, got %v", err)
	}
}

func TestCategoryBit(t *testing.T) {
	if categoryBit(0) != 0 {
		t.Fatalf("category 0 is invalid and should map to no bits")
	}
	if categoryBit(1) != 1 {
		t.Fatalf("category 1 should be bit 0")
	}
	if categoryBit(maxCategories) != 1<<(maxCategories-1) {
		t.Fatalf("category %d should be the top bit", maxCategories)
	}
	if categoryBit(maxCategories+1) != 0 {
		t.Fatalf("category beyond the limit should map to no bits")
	}
}
