package ccworld

import "github.com/jakecoffman/cp"

// JointKind selects which constraint family AddJoint assembles. Several kinds are composed out of more than
// one engine constraint since the collaborator has no single equivalent.
type JointKind int

const (
	JointDistance JointKind = iota
	JointRope
	JointRevolute
	JointMouse
	JointWeld
	JointPrismatic
	JointGear
	JointFriction
	JointWheel
	JointPulley
)

// JointSpec configures one joint. Apart from MaxForce/MaxBias, only the
// fields relevant to Kind are read.
type JointSpec struct {
	Kind JointKind

	AnchorA, AnchorB Vec // body-local anchor points

	// Distance / Rope
	MinLength, MaxLength float64

	// Prismatic (Groove): the groove is defined in body A's local space
	GrooveA, GrooveB Vec

	// Gear
	Phase, Ratio float64

	// Any kind: applied to every constraint of the joint when > 0
	MaxForce, MaxBias float64

	// Wheel spring reads both; the Friction spring reads only Damping
	// (its stiffness is always zero)
	Stiffness, Damping float64

	// Pulley: second pair of anchors on the same two bodies, with the
	// implicit third body being the rope run over both pulleys
	AnchorA2, AnchorB2 Vec
	Ratio2             float64
}

// Joint is a handle to one or more engine constraints created by AddJoint.
type Joint struct {
	kind        JointKind
	constraints []*cp.Constraint
}

func v(p Vec) cp.Vector { return cp.Vector{X: p.X, Y: p.Y} }

// AddJoint builds the constraint(s) for spec between bodyA and bodyB and
// adds them to the space. Colliders
// passed in must belong to this world.
func (w *World) AddJoint(a, b *Collider, spec JointSpec) *Joint {
	w.mu.Lock()
	defer w.mu.Unlock()
	j := &Joint{kind: spec.Kind}
	add := func(c *cp.Constraint) {
		w.sp.AddConstraint(c)
		w.joints[c] = struct{}{}
		j.constraints = append(j.constraints, c)
	}

	switch spec.Kind {
	case JointDistance:
		add(cp.NewSlideJoint(a.body, b.body, v(spec.AnchorA), v(spec.AnchorB), spec.MinLength, spec.MaxLength))
	case JointRope:
		add(cp.NewSlideJoint(a.body, b.body, v(spec.AnchorA), v(spec.AnchorB), 0, spec.MaxLength))
	case JointRevolute:
		add(cp.NewPivotJoint2(a.body, b.body, v(spec.AnchorA), v(spec.AnchorB)))
	case JointMouse:
		add(cp.NewPivotJoint2(a.body, b.body, v(spec.AnchorA), v(spec.AnchorB)))
	case JointWeld:
		pivot := cp.NewPivotJoint2(a.body, b.body, v(spec.AnchorA), v(spec.AnchorB))
		limit := cp.NewRotaryLimitJoint(a.body, b.body, 0, 0)
		add(pivot)
		add(limit)
	case JointPrismatic:
		add(cp.NewGrooveJoint(a.body, v(spec.GrooveA), v(spec.GrooveB), v(spec.AnchorB)))
	case JointGear:
		add(cp.NewGearJoint(a.body, b.body, spec.Phase, spec.Ratio))
	case JointFriction:
		pivot := cp.NewPivotJoint2(a.body, b.body, v(spec.AnchorA), v(spec.AnchorB))
		spring := cp.NewDampedRotarySpring(a.body, b.body, 0, 0, spec.Damping)
		add(pivot)
		add(spring)
	case JointWheel:
		pivot := cp.NewPivotJoint2(a.body, b.body, v(spec.AnchorA), v(spec.AnchorB))
		spring := cp.NewDampedSpring(a.body, b.body, v(spec.AnchorA), v(spec.AnchorB), 0, spec.Stiffness, spec.Damping)
		add(pivot)
		add(spring)
	case JointPulley:
		add(cp.NewSlideJoint(a.body, b.body, v(spec.AnchorA), v(spec.AnchorB), 0, spec.MaxLength))
		add(cp.NewSlideJoint(a.body, b.body, v(spec.AnchorA2), v(spec.AnchorB2), 0, spec.MaxLength*spec.Ratio2))
	}

	for _, c := range j.constraints {
		if spec.MaxForce > 0 {
			c.SetMaxForce(spec.MaxForce)
		}
		if spec.MaxBias > 0 {
			c.SetMaxBias(spec.MaxBias)
		}
	}
	return j
}

// RemoveJoint removes every constraint backing j from the space. Safe to
// call more than once; a second call is a no-op.
func (w *World) RemoveJoint(j *Joint) {
	if j == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, c := range j.constraints {
		if _, ok := w.joints[c]; !ok {
			continue
		}
		w.sp.RemoveConstraint(c)
		delete(w.joints, c)
	}
	j.constraints = nil
}
