package ccworld

import (
	"log"
	"sync"

	"github.com/jakecoffman/cp"
)

// dynamicCollisionType is the single engine collision type shared by every
// fixture this core creates. Physics-level filtering is done entirely
// through category/mask; the engine's own CollisionType mechanism is used
// only to install one wildcard-style handler (the four dispatch
// trampolines) and is otherwise uninvolved in routing, which is resolved
// from fixture UserData against the class-pair routing table.
const dynamicCollisionType cp.CollisionType = 1

// allCategories is the accept-everything mask used by every sensor fixture.
const allCategories = ^uint(0)

// World owns the physics engine, the collision class registry, the
// contact pool, and every collider created against it.
type World struct {
	mu sync.Mutex

	sp *cp.Space

	classes *classRegistry
	routing *routingTable

	contacts *contactPool

	colliders map[string]*Collider
	byShape   map[*cp.Shape]*Collider

	joints map[*cp.Constraint]struct{}

	queryDebugDrawing bool
	debugQueries      []debugQuery

	destroyed bool
}

// New creates the physics world, installs the four dispatch trampolines,
// and registers the default class "Default".
func New(gx, gy float64, sleepAllowed bool) *World {
	sp := cp.NewSpace()
	sp.SetGravity(cp.Vector{X: gx, Y: gy})
	if !sleepAllowed {
		sp.SleepTimeThreshold = 1e9
	}

	w := &World{
		sp:        sp,
		classes:   newClassRegistry(),
		routing:   newRoutingTable(),
		contacts:  newContactPool(),
		colliders: make(map[string]*Collider),
		byShape:   make(map[*cp.Shape]*Collider),
		joints:    make(map[*cp.Constraint]struct{}),
	}
	w.installTrampolines()
	// Bootstraps Default without freezing the implicit/explicit toggle, so
	// SetExplicitCollisionEvents is still callable right after New()
	// returns, before the caller registers any class of their own.
	if err := w.classes.bootstrapDefault(ClassSpec{}); err != nil {
		log.Printf("ccworld: registering default class: %v", err)
	}
	w.routing.rebuild(w.classes)
	return w
}

func (w *World) space() *cp.Space { return w.sp }

// installTrampolines wires the space's single wildcard-equivalent handler
// to the four raw dispatch points, translating each into routed collider
// events via the routing table and contact pool.
func (w *World) installTrampolines() {
	h := w.sp.NewCollisionHandler(dynamicCollisionType, dynamicCollisionType)
	h.UserData = w
	h.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, _ := userData.(*World)
		world.onRaw(TransitionEnter, arb)
		return true
	}
	h.SeparateFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) {
		world, _ := userData.(*World)
		world.onRaw(TransitionExit, arb)
	}
	h.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, _ := userData.(*World)
		return world.onPreSolve(arb)
	}
	h.PostSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) {
		world, _ := userData.(*World)
		world.onPostSolve(arb)
	}
}

func (w *World) colliderOf(shape *cp.Shape) *Collider {
	if shape == nil {
		return nil
	}
	if c, ok := shape.UserData.(*Collider); ok {
		return c
	}
	return nil
}

func (w *World) registerFixtures(c *Collider, shapes ...*cp.Shape) {
	for _, s := range shapes {
		if s != nil {
			w.byShape[s] = c
		}
	}
}

func (w *World) unregisterFixtures(shapes ...*cp.Shape) {
	for _, s := range shapes {
		if s != nil {
			delete(w.byShape, s)
		}
	}
}

func (w *World) forgetCollider(c *Collider) {
	delete(w.colliders, c.id)
}

// onRaw handles Begin (enter) and Separate (exit): classify the fixture
// pair's sensor-ness, look up the routing table, and enqueue one routed
// event per matching declared pair onto the appropriate collider(s).
func (w *World) onRaw(kind Transition, arb *cp.Arbiter) {
	shapeA, shapeB := arb.Shapes()
	colA := w.colliderOf(shapeA)
	colB := w.colliderOf(shapeB)
	if colA == nil || colB == nil {
		return
	}
	routes := w.routing.dispatch(kind, colA.class, colB.class, shapeA.Sensor, shapeB.Sensor)
	if len(routes) == 0 {
		return
	}
	contact := w.contacts.capture(arb, w.colliderOf)
	for _, r := range routes {
		switch r.to {
		case "a":
			colA.enqueue(kind, colB, contact)
		case "b":
			colB.enqueue(kind, colA, contact)
		}
	}
}

// onPreSolve runs routed pre-solve dispatch plus any user Go/scripted
// PreSolve hooks, returning false (disabling the contact) if either side
// disabled it.
func (w *World) onPreSolve(arb *cp.Arbiter) bool {
	shapeA, shapeB := arb.Shapes()
	colA := w.colliderOf(shapeA)
	colB := w.colliderOf(shapeB)
	if colA == nil || colB == nil {
		return true
	}
	routes := w.routing.dispatch(TransitionPre, colA.class, colB.class, shapeA.Sensor, shapeB.Sensor)
	if len(routes) == 0 {
		return true
	}
	contact := w.contacts.capture(arb, w.colliderOf)
	enabled := true
	for _, r := range routes {
		var self, other *Collider
		switch r.to {
		case "a":
			self, other = colA, colB
		case "b":
			self, other = colB, colA
		default:
			continue
		}
		if self.preSolve != nil {
			if !self.preSolve(self, other, contact) {
				enabled = false
			}
		}
		if self.scriptedPreSolve != nil {
			if ok, err := runPreSolveScript(self.scriptedPreSolve, self, other, contact); err != nil {
				log.Printf("ccworld: scripted preSolve on %s: %v", self.id, err)
			} else if !ok {
				enabled = false
			}
		}
	}
	if !enabled {
		contact.SetEnabled(false)
	}
	return enabled
}

func (w *World) onPostSolve(arb *cp.Arbiter) {
	shapeA, shapeB := arb.Shapes()
	colA := w.colliderOf(shapeA)
	colB := w.colliderOf(shapeB)
	if colA == nil || colB == nil {
		return
	}

	// Every touching pair reaches post-solve each step regardless of
	// whether either side declared a Post route, so this is also where a
	// tracked stay's cached contact is kept fresh.
	contact := w.contacts.capture(arb, w.colliderOf)
	colA.refreshStay(colB.class, colB, contact)
	colB.refreshStay(colA.class, colA, contact)

	routes := w.routing.dispatch(TransitionPost, colA.class, colB.class, shapeA.Sensor, shapeB.Sensor)
	if len(routes) == 0 {
		return
	}
	for _, r := range routes {
		var self, other *Collider
		switch r.to {
		case "a":
			self, other = colA, colB
		case "b":
			self, other = colB, colA
		default:
			continue
		}
		if self.postSolve != nil {
			self.postSolve(self, other, contact)
		}
		if self.scriptedPostSolve != nil {
			if err := runPostSolveScript(self.scriptedPostSolve, self, other, contact); err != nil {
				log.Printf("ccworld: scripted postSolve on %s: %v", self.id, err)
			}
		}
	}
}

// Update resets the contact pool, clears every collider's event queues,
// then steps the physics world. Enter/exit queues populated
// during the step are visible to the game until the next Update call.
func (w *World) Update(dt float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return
	}
	w.contacts.reset()
	for _, c := range w.colliders {
		c.clearQueues()
	}
	for i := range w.debugQueries {
		w.debugQueries[i].ttl--
	}
	kept := w.debugQueries[:0]
	for _, q := range w.debugQueries {
		if q.ttl > 0 {
			kept = append(kept, q)
		}
	}
	w.debugQueries = kept
	w.sp.Step(dt)
	// Snapshots outlive the step; drop their arbiter references so a later
	// SetEnabled only updates the snapshot.
	for _, c := range w.contacts.slots {
		c.arb = nil
	}
}

// AddCollisionClass registers one collision class. After
// registration the ignore-graph compiler reruns, masks are reapplied to
// every existing fixture, and the routing table is rebuilt.
func (w *World) AddCollisionClass(name string, spec ClassSpec) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.classes.add(name, spec); err != nil {
		return err
	}
	w.routing.rebuild(w.classes)
	w.reapplyAllFilters()
	return nil
}

// AddCollisionClassTable registers many classes at once.
func (w *World) AddCollisionClassTable(table ClassTable) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.classes.addTable(table); err != nil {
		return err
	}
	w.routing.rebuild(w.classes)
	w.reapplyAllFilters()
	return nil
}

// ReloadCollisionClassTable replaces the entire class table with table,
// reassigning categories from scratch, then rebuilds routing and
// reapplies filters to every live collider. Unlike
// AddCollisionClassTable this does not fail on names that already exist —
// it is meant to apply a changed config file wholesale.
func (w *World) ReloadCollisionClassTable(table ClassTable) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.classes.replaceTable(table); err != nil {
		return err
	}
	w.routing.rebuild(w.classes)
	w.reapplyAllFilters()
	return nil
}

func (w *World) reapplyAllFilters() {
	for _, c := range w.colliders {
		if cs, ok := w.classes.get(c.class); ok {
			c.applyFilters(cs)
		}
	}
}

// SetExplicitCollisionEvents switches enter/exit/pre/post peer sets from
// implicit (default: every class) to explicit (default: nobody). Must be
// called before the first collision class is registered beyond "Default"
// — in practice, before any call to New has had a chance to matter, so
// this effectively must run immediately after New.
func (w *World) SetExplicitCollisionEvents(explicit bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.classes.setExplicit(explicit)
}

// SetQueryDebugDrawing toggles whether shape queries record themselves for
// the debug overlay.
func (w *World) SetQueryDebugDrawing(enabled bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.queryDebugDrawing = enabled
}

// Destroy destroys every collider, every joint, and the underlying space;
// the world handle becomes invalid afterward.
func (w *World) Destroy() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return
	}
	for _, c := range w.colliders {
		c.destroyLocked()
	}
	for j := range w.joints {
		w.sp.RemoveConstraint(j)
	}
	w.joints = nil
	w.destroyed = true
}

func (w *World) newCollider(class string, body *cp.Body) (*Collider, error) {
	cs, ok := w.classes.get(class)
	if !ok {
		return nil, ErrUnknownClass
	}
	c := &Collider{
		world:  w,
		id:     newColliderID(),
		class:  class,
		body:   body,
		shapes: make(map[string]*fixturePair),
	}
	w.sp.AddBody(body)
	w.colliders[c.id] = c
	c.applyFilters(cs)
	return c, nil
}

func (w *World) buildFixtures(body *cp.Body, spec ShapeSpec) (solid, sensor *cp.Shape, err error) {
	switch spec.Kind {
	case ShapeCircle:
		offset := cp.Vector{X: spec.OffsetX, Y: spec.OffsetY}
		solid = cp.NewCircle(body, spec.Radius, offset)
		sensor = cp.NewCircle(body, spec.Radius, offset)
	case ShapeRectangle:
		bb := cp.BB{
			L: spec.OffsetX - spec.Width/2, B: spec.OffsetY - spec.Height/2,
			R: spec.OffsetX + spec.Width/2, T: spec.OffsetY + spec.Height/2,
		}
		solid = cp.NewBox2(body, bb, 0)
		sensor = cp.NewBox2(body, bb, 0)
	case ShapeBSGRectangle:
		verts := octagonVertices(spec.Width, spec.Height, spec.Cut)
		cpVerts := toCPVerts(verts, spec.OffsetX, spec.OffsetY)
		solid = cp.NewPolyShapeRaw(body, len(cpVerts), cpVerts, 0)
		sensor = cp.NewPolyShapeRaw(body, len(cpVerts), cpVerts, 0)
	case ShapePolygon:
		cpVerts := toCPVerts(spec.Vertices, 0, 0)
		solid = cp.NewPolyShapeRaw(body, len(cpVerts), cpVerts, 0)
		sensor = cp.NewPolyShapeRaw(body, len(cpVerts), cpVerts, 0)
	case ShapeLine:
		a := cp.Vector{X: spec.X1, Y: spec.Y1}
		b := cp.Vector{X: spec.X2, Y: spec.Y2}
		solid = cp.NewSegment(body, a, b, 0)
		sensor = cp.NewSegment(body, a, b, 0)
	default:
		return nil, nil, ErrUnknownClass
	}
	return solid, sensor, nil
}

// buildChainFixtures approximates a chain/loop of segments as a set of
// individual cp.Segment shapes glued to the same body, since cp has no
// single multi-segment fixture type. The first edge's pair is returned as
// solid/sensor; the rest are returned as extraSolid/extraSensor so the
// caller can track every edge for removal and debug drawing.
func (w *World) buildChainFixtures(body *cp.Body, spec ShapeSpec) (solid, sensor *cp.Shape, extraSolid, extraSensor []*cp.Shape, err error) {
	n := len(spec.Vertices)
	if n < 2 {
		return nil, nil, nil, nil, ErrUnknownClass
	}
	segs := n - 1
	if spec.Loop {
		segs = n
	}
	for i := 0; i < segs; i++ {
		a := spec.Vertices[i]
		b := spec.Vertices[(i+1)%n]
		sa := cp.NewSegment(body, cp.Vector{X: a.X, Y: a.Y}, cp.Vector{X: b.X, Y: b.Y}, 0)
		se := cp.NewSegment(body, cp.Vector{X: a.X, Y: a.Y}, cp.Vector{X: b.X, Y: b.Y}, 0)
		if solid == nil {
			solid, sensor = sa, se
		} else {
			extraSolid = append(extraSolid, sa)
			extraSensor = append(extraSensor, se)
		}
	}
	return solid, sensor, extraSolid, extraSensor, nil
}

func toCPVerts(verts []Vec, offX, offY float64) []cp.Vector {
	out := make([]cp.Vector, len(verts))
	for i, v := range verts {
		out[i] = cp.Vector{X: v.X + offX, Y: v.Y + offY}
	}
	return out
}

func (w *World) attachShape(c *Collider, name string, spec ShapeSpec) error {
	var solid, sensor *cp.Shape
	var extraSolid, extraSensor []*cp.Shape
	var err error
	if spec.Kind == ShapeChain {
		solid, sensor, extraSolid, extraSensor, err = w.buildChainFixtures(c.body, spec)
	} else {
		solid, sensor, err = w.buildFixtures(c.body, spec)
	}
	if err != nil {
		return err
	}

	cs, ok := w.classes.get(c.class)
	if !ok {
		return ErrUnknownClass
	}
	filter := cp.NewShapeFilter(0, uint(cs.category), uint(cs.mask))
	allFilter := cp.NewShapeFilter(0, uint(cs.category), allCategories)

	configure := func(s *cp.Shape, sensorShape bool) {
		s.UserData = c
		s.SetCollisionType(dynamicCollisionType)
		if sensorShape {
			s.SetSensor(true)
			s.SetFilter(allFilter)
		} else {
			s.SetFilter(filter)
		}
		w.sp.AddShape(s)
		w.registerFixtures(c, s)
	}
	configure(solid, false)
	configure(sensor, true)
	for _, s := range extraSolid {
		configure(s, false)
	}
	for _, s := range extraSensor {
		configure(s, true)
	}

	c.shapes[name] = &fixturePair{
		kind: spec.Kind, spec: spec,
		solid: solid, sensor: sensor,
		extraSolid: extraSolid, extraSensor: extraSensor,
	}
	return nil
}

// newBody creates a dynamic (or static, if mass<=0) body at (x,y).
func newBody(mass, moment, x, y float64) *cp.Body {
	var body *cp.Body
	if mass <= 0 {
		body = cp.NewStaticBody()
	} else {
		body = cp.NewBody(mass, moment)
	}
	body.SetPosition(cp.Vector{X: x, Y: y})
	return body
}

// NewCircleCollider creates a collider with one circular solid+sensor
// fixture pair.
func (w *World) NewCircleCollider(x, y, radius float64, class string) (*Collider, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	mass := 1.0
	moment := cp.MomentForCircle(mass, 0, radius, cp.Vector{})
	body := newBody(mass, moment, x, y)
	c, err := w.newCollider(class, body)
	if err != nil {
		return nil, err
	}
	if err := w.attachShape(c, "main", CircleShape(radius, 0, 0)); err != nil {
		return nil, err
	}
	return c, nil
}

// NewStaticCircleCollider creates an immovable collider with one circular
// solid+sensor fixture pair, for ground/wall geometry that dynamic
// colliders rest or bounce against.
func (w *World) NewStaticCircleCollider(x, y, radius float64, class string) (*Collider, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	body := newBody(0, 0, x, y)
	c, err := w.newCollider(class, body)
	if err != nil {
		return nil, err
	}
	if err := w.attachShape(c, "main", CircleShape(radius, 0, 0)); err != nil {
		return nil, err
	}
	return c, nil
}

// NewRectangleCollider creates a collider with one rectangular solid+sensor
// fixture pair.
func (w *World) NewRectangleCollider(x, y, width, height float64, class string) (*Collider, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	mass := 1.0
	moment := cp.MomentForBox(mass, width, height)
	body := newBody(mass, moment, x+width/2, y+height/2)
	c, err := w.newCollider(class, body)
	if err != nil {
		return nil, err
	}
	if err := w.attachShape(c, "main", RectangleShape(width, height, 0, 0)); err != nil {
		return nil, err
	}
	return c, nil
}

// NewStaticRectangleCollider creates an immovable rectangular collider,
// e.g. for ground or platform geometry.
func (w *World) NewStaticRectangleCollider(x, y, width, height float64, class string) (*Collider, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	body := newBody(0, 0, x+width/2, y+height/2)
	c, err := w.newCollider(class, body)
	if err != nil {
		return nil, err
	}
	if err := w.attachShape(c, "main", RectangleShape(width, height, 0, 0)); err != nil {
		return nil, err
	}
	return c, nil
}

// NewBSGRectangleCollider creates a rectangle collider with its corners
// clipped into an octagon by cut.
func (w *World) NewBSGRectangleCollider(x, y, width, height, cut float64, class string) (*Collider, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	mass := 1.0
	moment := cp.MomentForBox(mass, width, height)
	body := newBody(mass, moment, x+width/2, y+height/2)
	c, err := w.newCollider(class, body)
	if err != nil {
		return nil, err
	}
	if err := w.attachShape(c, "main", BSGRectangleShape(width, height, cut, 0, 0)); err != nil {
		return nil, err
	}
	return c, nil
}

// NewStaticPolygonCollider creates an immovable collider from a convex
// polygon given in body-local space, positioned by the polygon's own
// vertex coordinates (the body sits at the origin).
func (w *World) NewStaticPolygonCollider(vertices []Vec, class string) (*Collider, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	body := newBody(0, 0, 0, 0)
	c, err := w.newCollider(class, body)
	if err != nil {
		return nil, err
	}
	if err := w.attachShape(c, "main", PolygonShape(vertices)); err != nil {
		return nil, err
	}
	return c, nil
}

// NewPolygonCollider creates a collider from a convex polygon given in
// body-local space.
func (w *World) NewPolygonCollider(vertices []Vec, class string) (*Collider, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	mass := 1.0
	cpVerts := toCPVerts(vertices, 0, 0)
	moment := cp.MomentForPoly(mass, len(cpVerts), cpVerts, cp.Vector{}, 0)
	body := cp.NewBody(mass, moment)
	c, err := w.newCollider(class, body)
	if err != nil {
		return nil, err
	}
	if err := w.attachShape(c, "main", PolygonShape(vertices)); err != nil {
		return nil, err
	}
	return c, nil
}

// NewLineCollider creates a static collider with one segment fixture pair.
func (w *World) NewLineCollider(x1, y1, x2, y2 float64, class string) (*Collider, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	body := cp.NewStaticBody()
	c, err := w.newCollider(class, body)
	if err != nil {
		return nil, err
	}
	if err := w.attachShape(c, "main", LineShape(x1, y1, x2, y2)); err != nil {
		return nil, err
	}
	return c, nil
}

// NewChainCollider creates a static collider out of a chain of segments,
// closed into a loop if loop is true.
func (w *World) NewChainCollider(vertices []Vec, loop bool, class string) (*Collider, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	body := cp.NewStaticBody()
	c, err := w.newCollider(class, body)
	if err != nil {
		return nil, err
	}
	if err := w.attachShape(c, "main", ChainShape(vertices, loop)); err != nil {
		return nil, err
	}
	return c, nil
}
