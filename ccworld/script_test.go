package ccworld

import (
	"errors"
	"testing"
)

func TestSetScriptedPreSolveRequiresFunction(t *testing.T) {
	w := New(0, 0, true)
	c, err := w.NewCircleCollider(0, 0, 5, "Default")
	if err != nil {
		t.Fatal(err)
	}
	if err := c.SetScriptedPreSolve("x := 1"); !errors.Is(err, ErrScriptCompile) {
		t.Fatalf("expected ErrScriptCompile for a script missing pre_solve(), got %v", err)
	}
}

func TestSetScriptedPreSolveCompilesValidScript(t *testing.T) {
	w := New(0, 0, true)
	c, err := w.NewCircleCollider(0, 0, 5, "Default")
	if err != nil {
		t.Fatal(err)
	}
	src := `
pre_solve := func(self, other, contact) {
	return true
}
`
	if err := c.SetScriptedPreSolve(src); err != nil {
		t.Fatalf("expected a valid script to compile, got %v", err)
	}
	if c.scriptedPreSolve == nil {
		t.Fatalf("SetScriptedPreSolve should cache a compiled script on the collider")
	}
}

func TestRunPreSolveScriptHonorsDisableDecision(t *testing.T) {
	w := New(0, 0, true)
	self, err := w.NewCircleCollider(0, 0, 5, "Default")
	if err != nil {
		t.Fatal(err)
	}
	other, err := w.NewCircleCollider(20, 0, 5, "Default")
	if err != nil {
		t.Fatal(err)
	}

	src := `
pre_solve := func(self, other, contact) {
	return false
}
`
	if err := self.SetScriptedPreSolve(src); err != nil {
		t.Fatal(err)
	}

	contact := newTestContact()
	enabled, err := runPreSolveScript(self.scriptedPreSolve, self, other, contact)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if enabled {
		t.Fatalf("a pre_solve script returning false should disable the contact")
	}
}

func TestRunPostSolveScriptCanDisableContactViaSetEnabled(t *testing.T) {
	w := New(0, 0, true)
	self, err := w.NewCircleCollider(0, 0, 5, "Default")
	if err != nil {
		t.Fatal(err)
	}
	other, err := w.NewCircleCollider(20, 0, 5, "Default")
	if err != nil {
		t.Fatal(err)
	}

	src := `
post_solve := func(self, other, contact) {
	contact.set_enabled(false)
}
`
	if err := self.SetScriptedPostSolve(src); err != nil {
		t.Fatal(err)
	}

	contact := newTestContact()
	if err := runPostSolveScript(self.scriptedPostSolve, self, other, contact); err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if contact.Enabled() {
		t.Fatalf("contact.set_enabled(false) from the script should flip the snapshot's Enabled() reading")
	}
}
