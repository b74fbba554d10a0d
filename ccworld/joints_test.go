package ccworld

import (
	"testing"

	"github.com/jakecoffman/cp"
)

func TestAddJointRopeLimitsSeparation(t *testing.T) {
	w := New(0, 900, false)
	a, err := w.NewCircleCollider(0, 0, 5, "Default")
	if err != nil {
		t.Fatal(err)
	}
	b, err := w.NewCircleCollider(0, 50, 5, "Default")
	if err != nil {
		t.Fatal(err)
	}

	j := w.AddJoint(a, b, JointSpec{Kind: JointRope, MaxLength: 60})
	if j == nil {
		t.Fatalf("AddJoint returned nil")
	}
	if len(w.joints) != 1 {
		t.Fatalf("expected one constraint registered, got %d", len(w.joints))
	}

	stepN(w, 120)

	dy := b.Body().Position().Y - a.Body().Position().Y
	if dy > 65 {
		t.Fatalf("a %v-length rope joint should keep the bodies within its max length, separation=%v", 60.0, dy)
	}
}

func TestRemoveJointIsIdempotent(t *testing.T) {
	w := New(0, 0, true)
	a, _ := w.NewCircleCollider(0, 0, 5, "Default")
	b, _ := w.NewCircleCollider(10, 0, 5, "Default")

	j := w.AddJoint(a, b, JointSpec{Kind: JointDistance, MinLength: 5, MaxLength: 15})
	if len(w.joints) != 1 {
		t.Fatalf("expected one constraint registered")
	}
	w.RemoveJoint(j)
	if len(w.joints) != 0 {
		t.Fatalf("RemoveJoint should remove the constraint from the world")
	}
	w.RemoveJoint(j) // must not panic
	w.RemoveJoint(nil)
}

func TestAddJointWeldCreatesTwoConstraints(t *testing.T) {
	w := New(0, 0, true)
	a, _ := w.NewCircleCollider(0, 0, 5, "Default")
	b, _ := w.NewCircleCollider(10, 0, 5, "Default")

	j := w.AddJoint(a, b, JointSpec{Kind: JointWeld})
	if len(j.constraints) != 2 {
		t.Fatalf("a Weld joint should be composed of 2 engine constraints (pivot + rotary limit), got %d", len(j.constraints))
	}
	if len(w.joints) != 2 {
		t.Fatalf("both of a Weld joint's constraints must be tracked, got %d", len(w.joints))
	}
}

func TestAddJointFrictionIsPureDamping(t *testing.T) {
	w := New(0, 0, true)
	a, _ := w.NewCircleCollider(0, 0, 5, "Default")
	b, _ := w.NewCircleCollider(10, 0, 5, "Default")

	j := w.AddJoint(a, b, JointSpec{Kind: JointFriction, Stiffness: 500, Damping: 5})
	if len(j.constraints) != 2 {
		t.Fatalf("a Friction joint should be composed of 2 engine constraints (pivot + rotary spring), got %d", len(j.constraints))
	}
	spring, ok := j.constraints[1].Class.(*cp.DampedRotarySpring)
	if !ok {
		t.Fatalf("second constraint should be a DampedRotarySpring, got %T", j.constraints[1].Class)
	}
	if spring.Stiffness != 0 {
		t.Fatalf("a friction joint must use zero stiffness regardless of spec.Stiffness, got %v", spring.Stiffness)
	}
}

func TestAddJointPulleyCreatesTwoSlideJoints(t *testing.T) {
	w := New(0, 0, true)
	a, _ := w.NewCircleCollider(0, 0, 5, "Default")
	b, _ := w.NewCircleCollider(10, 0, 5, "Default")

	j := w.AddJoint(a, b, JointSpec{Kind: JointPulley, MaxLength: 20, Ratio2: 1})
	if len(j.constraints) != 2 {
		t.Fatalf("a Pulley joint should be composed of 2 slide joints, got %d", len(j.constraints))
	}
}
