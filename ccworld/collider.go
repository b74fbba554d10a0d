package ccworld

import (
	"crypto/rand"
	"fmt"
	"log"

	"github.com/jakecoffman/cp"
)

// CollisionData is one {collider, contact} pair as returned by the
// getEnter/Exit/StayCollisionData family.
type CollisionData struct {
	Collider *Collider
	Contact  *Contact
}

// event is one queued enter/exit notification waiting to be polled this
// frame.
type event struct {
	kind    Transition
	peer    *Collider
	contact *Contact
}

type fixturePair struct {
	kind   ShapeKind
	spec   ShapeSpec
	solid  *cp.Shape
	sensor *cp.Shape

	// extraSolid/extraSensor hold the second-and-later segment shapes of a
	// Chain shape: cp has no single multi-segment fixture type,
	// so a chain is glued together out of one cp.Segment pair per edge, with
	// solid/sensor above holding only the first edge.
	extraSolid  []*cp.Shape
	extraSensor []*cp.Shape
}

// Collider wraps one physics body, its named shapes, and the per-frame
// event bookkeeping backing the Enter/Exit/Stay poll methods.
type Collider struct {
	world *World
	id    string
	class string
	body  *cp.Body

	shapes map[string]*fixturePair

	queues map[string][]event

	stay      map[string]map[*Collider]*Contact
	enterData map[string]CollisionData
	exitData  map[string]CollisionData

	preSolve  func(self, other *Collider, contact *Contact) bool
	postSolve func(self, other *Collider, contact *Contact)

	scriptedPreSolve  *compiledScript
	scriptedPostSolve *compiledScript

	object    any
	destroyed bool
}

func newColliderID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}

// Class returns the collider's current collision class name.
func (c *Collider) Class() string { return c.class }

// ID returns the collider's stable identifier, assigned at creation.
func (c *Collider) ID() string { return c.id }

// Body returns the underlying engine body, for callers that need to read
// position/velocity or pass it to World.AddJoint.
func (c *Collider) Body() *cp.Body { return c.body }

// SetObject attaches an arbitrary user pointer.
func (c *Collider) SetObject(v any) { c.object = v }

// GetObject returns the attached user pointer, or nil.
func (c *Collider) GetObject() any { return c.object }

// SetPreSolve installs a synchronous pre-solve hook. The hook
// runs inside the physics step; it must not mutate the world.
func (c *Collider) SetPreSolve(fn func(self, other *Collider, contact *Contact) bool) {
	c.preSolve = fn
}

// SetPostSolve installs a synchronous post-solve hook.
func (c *Collider) SetPostSolve(fn func(self, other *Collider, contact *Contact)) {
	c.postSolve = fn
}

// SetCollisionClass reassigns the collider's class, reapplying category
// and mask to every solid fixture (sensors keep matching everything).
// Fails with ErrUnknownClass if name is not registered.
func (c *Collider) SetCollisionClass(name string) error {
	if c.world == nil {
		return ErrUnknownClass
	}
	c.world.mu.Lock()
	defer c.world.mu.Unlock()
	cs, ok := c.world.classes.get(name)
	if !ok {
		return ErrUnknownClass
	}
	c.class = name
	c.applyFilters(cs)
	return nil
}

func (c *Collider) applyFilters(cs *classState) {
	filter := cp.NewShapeFilter(0, uint(cs.category), uint(cs.mask))
	allFilter := cp.NewShapeFilter(0, uint(cs.category), allCategories)
	for _, fp := range c.shapes {
		if fp.solid != nil {
			fp.solid.SetFilter(filter)
		}
		if fp.sensor != nil {
			fp.sensor.SetFilter(allFilter)
		}
	}
}

// AddShape attaches an additional named shape, spawning both a
// solid and a paired sensor fixture. Returns ErrDuplicateShape if the name
// is already in use on this collider.
func (c *Collider) AddShape(name string, spec ShapeSpec) error {
	if _, exists := c.shapes[name]; exists {
		return ErrDuplicateShape
	}
	c.world.mu.Lock()
	defer c.world.mu.Unlock()
	return c.world.attachShape(c, name, spec)
}

// RemoveShape detaches and destroys a named shape pair. No-op if the name
// is unknown.
func (c *Collider) RemoveShape(name string) {
	c.world.mu.Lock()
	defer c.world.mu.Unlock()
	c.removeShapeLocked(name)
}

func (c *Collider) removeShapeLocked(name string) {
	fp, ok := c.shapes[name]
	if !ok {
		return
	}
	c.world.unregisterFixtures(fp.solid, fp.sensor)
	c.world.unregisterFixtures(fp.extraSolid...)
	c.world.unregisterFixtures(fp.extraSensor...)
	if fp.solid != nil {
		c.world.space().RemoveShape(fp.solid)
	}
	if fp.sensor != nil {
		c.world.space().RemoveShape(fp.sensor)
	}
	for _, s := range fp.extraSolid {
		c.world.space().RemoveShape(s)
	}
	for _, s := range fp.extraSensor {
		c.world.space().RemoveShape(s)
	}
	delete(c.shapes, name)
}

// Destroy detaches user data, destroys every fixture and sensor, frees the
// body, and marks the collider dead. Safe to call
// more than once.
func (c *Collider) Destroy() {
	if c == nil || c.destroyed {
		return
	}
	c.world.mu.Lock()
	defer c.world.mu.Unlock()
	c.destroyLocked()
}

func (c *Collider) destroyLocked() {
	if c.destroyed {
		return
	}
	for name := range c.shapes {
		c.removeShapeLocked(name)
	}
	if c.body != nil {
		c.world.space().RemoveBody(c.body)
	}
	c.object = nil
	c.destroyed = true
	c.world.forgetCollider(c)
	log.Printf("ccworld: collider %s (class %s) destroyed", c.id, c.class)
}

// Destroyed reports whether Destroy has already run on this collider.
func (c *Collider) Destroyed() bool { return c.destroyed }

// enqueue appends an event to this collider's per-peer-class queue.
func (c *Collider) enqueue(kind Transition, peer *Collider, contact *Contact) {
	if c.queues == nil {
		c.queues = make(map[string][]event)
	}
	key := peer.class
	c.queues[key] = append(c.queues[key], event{kind: kind, peer: peer, contact: contact})
}

// clearQueues empties every per-peer-class queue; called at the start of
// each World.Update.
func (c *Collider) clearQueues() {
	for k := range c.queues {
		delete(c.queues, k)
	}
}

func (c *Collider) addStay(peerClass string, peer *Collider, contact *Contact) {
	if c.stay == nil {
		c.stay = make(map[string]map[*Collider]*Contact)
	}
	if c.stay[peerClass] == nil {
		c.stay[peerClass] = make(map[*Collider]*Contact)
	}
	c.stay[peerClass][peer] = contact
}

func (c *Collider) removeStay(peerClass string, peer *Collider) {
	if c.stay[peerClass] == nil {
		return
	}
	delete(c.stay[peerClass], peer)
	if len(c.stay[peerClass]) == 0 {
		delete(c.stay, peerClass)
	}
}

// refreshStay updates the cached contact for an already-tracked stay peer.
// It never creates a new stay entry: only Enter does that.
func (c *Collider) refreshStay(peerClass string, peer *Collider, contact *Contact) {
	if c.stay[peerClass] == nil {
		return
	}
	if _, ok := c.stay[peerClass][peer]; !ok {
		return
	}
	c.stay[peerClass][peer] = contact
}

// Enter reports whether an enter event against peerClass exists in the
// current frame's queue. Side effects: the touching peer is
// added to the stay set and the hit is cached as the last enter data for
// peerClass. Does not remove the event from the queue — callers may poll
// multiple times per frame and still see it via the data getters.
func (c *Collider) Enter(peerClass string) bool {
	found := false
	for _, e := range c.queues[peerClass] {
		if e.kind != TransitionEnter {
			continue
		}
		found = true
		c.addStay(peerClass, e.peer, e.contact)
		if c.enterData == nil {
			c.enterData = make(map[string]CollisionData)
		}
		c.enterData[peerClass] = CollisionData{Collider: e.peer, Contact: e.contact}
	}
	return found
}

// Exit reports whether an exit event against peerClass exists in the
// current frame's queue, removing the matching peer from the stay set and
// caching the hit as the last exit data for peerClass.
func (c *Collider) Exit(peerClass string) bool {
	found := false
	for _, e := range c.queues[peerClass] {
		if e.kind != TransitionExit {
			continue
		}
		found = true
		c.removeStay(peerClass, e.peer)
		if c.exitData == nil {
			c.exitData = make(map[string]CollisionData)
		}
		c.exitData[peerClass] = CollisionData{Collider: e.peer, Contact: e.contact}
	}
	return found
}

// Stay reports whether any collider of peerClass is currently touching.
func (c *Collider) Stay(peerClass string) bool {
	return len(c.stay[peerClass]) > 0
}

// GetEnterCollisionData returns the last cached enter hit for peerClass,
// or the zero value if none has been observed.
func (c *Collider) GetEnterCollisionData(peerClass string) CollisionData {
	return c.enterData[peerClass]
}

// GetExitCollisionData returns the last cached exit hit for peerClass.
func (c *Collider) GetExitCollisionData(peerClass string) CollisionData {
	return c.exitData[peerClass]
}

// GetStayCollisionData returns every collider of peerClass currently
// touching, each paired with the most recent contact snapshot observed for
// that peer: the one captured on Enter, refreshed on every subsequent
// post-solve step while the pair keeps touching.
func (c *Collider) GetStayCollisionData(peerClass string) []CollisionData {
	set := c.stay[peerClass]
	if len(set) == 0 {
		return nil
	}
	out := make([]CollisionData, 0, len(set))
	for peer, contact := range set {
		out = append(out, CollisionData{Collider: peer, Contact: contact})
	}
	return out
}
