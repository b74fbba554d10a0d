package ccworld

import "github.com/jakecoffman/cp"

// Contact is a read-only, frame-scoped snapshot of an engine arbiter. It
// stays valid for the rest of the step it
// was captured in and until the start of the next World.Update — after
// that its pool slot may be silently reused. Call Clone for a copy that
// outlives the frame.
type Contact struct {
	shapeA, shapeB           *cp.Shape
	colliderA, colliderB     *Collider
	normal                   cp.Vector
	positions                []cp.Vector
	friction, restitution    float64
	enabled                  bool
	touching                 bool
	pooled                   bool
	arb                      *cp.Arbiter // only valid during the callback that produced this snapshot
}

// Fixtures returns the two engine shapes this contact was captured from.
func (c *Contact) Fixtures() (a, b *cp.Shape) { return c.shapeA, c.shapeB }

// Colliders returns the owning colliders of the two fixtures.
func (c *Contact) Colliders() (a, b *Collider) { return c.colliderA, c.colliderB }

// Normal returns the contact normal captured at the time of capture.
func (c *Contact) Normal() cp.Vector { return c.normal }

// Positions returns the contact point positions captured at capture time.
func (c *Contact) Positions() []cp.Vector { return append([]cp.Vector(nil), c.positions...) }

// Friction returns the combined friction captured at capture time.
func (c *Contact) Friction() float64 { return c.friction }

// Restitution returns the combined restitution captured at capture time.
func (c *Contact) Restitution() float64 { return c.restitution }

// Enabled reports whether the contact will produce a collision response.
// Only meaningful during a preSolve callback.
func (c *Contact) Enabled() bool { return c.enabled }

// SetEnabled disables the collision response for the underlying arbiter
// when called from within a preSolve callback. The engine
// collaborator only supports disabling, not re-enabling, a given
// step's arbiter, so SetEnabled(true) after a false is a no-op on the
// engine side but still updates the snapshot's own Enabled() reading.
// Calling it after World.Update has returned (the arbiter reference is
// cleared at the end of the step) only updates the frozen snapshot.
func (c *Contact) SetEnabled(enabled bool) {
	c.enabled = enabled
	if !enabled && c.arb != nil {
		c.arb.Ignore()
	}
}

// Touching reports whether the fixtures were touching at capture time.
func (c *Contact) Touching() bool { return c.touching }

// Clone returns a detached copy with no pool membership, valid for as long
// as the caller retains it.
func (c *Contact) Clone() *Contact {
	clone := *c
	clone.pooled = false
	clone.arb = nil
	clone.positions = append([]cp.Vector(nil), c.positions...)
	return &clone
}

func (c *Contact) captureFrom(arb *cp.Arbiter, colliderOf func(*cp.Shape) *Collider) {
	shapeA, shapeB := arb.Shapes()
	c.shapeA, c.shapeB = shapeA, shapeB
	c.colliderA = colliderOf(shapeA)
	c.colliderB = colliderOf(shapeB)
	c.arb = arb
	c.touching = arb.Touching()

	set := arb.ContactPointSet()
	c.normal = set.Normal
	c.positions = c.positions[:0]
	for i := 0; i < set.Count; i++ {
		p := set.Points[i]
		c.positions = append(c.positions, cp.Vector{
			X: (p.PointA.X + p.PointB.X) / 2,
			Y: (p.PointA.Y + p.PointB.Y) / 2,
		})
	}
	c.friction = arb.Friction()
	c.restitution = arb.Restitution()
	c.enabled = true
	c.pooled = true
}

// contactPool is a per-step-reusable vector of Contact slots with a cursor
// that only advances on slot reuse. update() resets the cursor to the start of the pool; capture()
// reuses the slot at the cursor if the cursor hasn't been suspended this
// step, otherwise (including the very first capture that overruns the
// pool) it appends a fresh slot and latches the cursor into "suspended"
// for the remainder of the step, so every further capture this step also
// appends. This is intentional: it matches the upstream engine wrapper's
// behavior of never disturbing slots still possibly referenced mid-step.
type contactPool struct {
	slots     []*Contact
	next      int
	suspended bool
}

func newContactPool() *contactPool {
	return &contactPool{}
}

// reset begins a new step: reuse resumes from slot 0.
func (p *contactPool) reset() {
	p.next = 0
	p.suspended = false
}

func (p *contactPool) capture(arb *cp.Arbiter, colliderOf func(*cp.Shape) *Collider) *Contact {
	if !p.suspended && p.next < len(p.slots) {
		c := p.slots[p.next]
		c.captureFrom(arb, colliderOf)
		p.next++
		return c
	}
	c := &Contact{}
	c.captureFrom(arb, colliderOf)
	p.slots = append(p.slots, c)
	p.suspended = true
	return c
}
