package ccworld

// Transition names one of the four callback kinds routed per class pair.
type Transition int

const (
	TransitionEnter Transition = iota
	TransitionExit
	TransitionPre
	TransitionPost
)

func (t Transition) String() string {
	switch t {
	case TransitionEnter:
		return "enter"
	case TransitionExit:
		return "exit"
	case TransitionPre:
		return "pre"
	case TransitionPost:
		return "post"
	default:
		return "unknown"
	}
}

var allTransitions = [...]Transition{TransitionEnter, TransitionExit, TransitionPre, TransitionPost}

// pairRoute is one declared {type1, type2} routing entry.
type pairRoute struct {
	t1, t2 string
}

// routingTable holds, per transition, the sensor and non-sensor pair
// lists. It is rebuilt wholesale from the class registry whenever the
// registry changes, mirroring the ignore-graph compiler's own
// full-recompute approach so both stay consistent with the live set of
// registered classes.
type routingTable struct {
	sensor    [len(allTransitions)][]pairRoute
	nonSensor [len(allTransitions)][]pairRoute

	sensorMemo map[[2]string]bool
}

func newRoutingTable() *routingTable {
	return &routingTable{sensorMemo: make(map[[2]string]bool)}
}

func transitionPeerSet(spec ClassSpec, t Transition) PeerSet {
	switch t {
	case TransitionEnter:
		return spec.Enter
	case TransitionExit:
		return spec.Exit
	case TransitionPre:
		return spec.Pre
	case TransitionPost:
		return spec.Post
	default:
		return Classes()
	}
}

// rebuild recomputes every transition's sensor/non-sensor pair lists from
// the registry's current classes, and resets the sensor-classification
// memo (the ignore graph may have changed since the last rebuild).
func (rt *routingTable) rebuild(reg *classRegistry) {
	for i := range allTransitions {
		rt.sensor[i] = rt.sensor[i][:0]
		rt.nonSensor[i] = rt.nonSensor[i][:0]
	}
	rt.sensorMemo = make(map[[2]string]bool)

	universe := reg.order
	for _, a := range universe {
		csA := reg.byName[a]
		for i, t := range allTransitions {
			peers := transitionPeerSet(csA.spec, t).resolve(a, universe)
			for b := range peers {
				pr := pairRoute{t1: a, t2: b}
				if rt.isSensorPair(reg, a, b) {
					rt.sensor[i] = append(rt.sensor[i], pr)
				} else {
					rt.nonSensor[i] = append(rt.nonSensor[i], pr)
				}
			}
		}
	}
}

// isSensorPair classifies a pair as sensor-involving iff either direction
// of the ignores relation holds between a and b, memoized by
// the unordered (a,b) key.
func (rt *routingTable) isSensorPair(reg *classRegistry, a, b string) bool {
	key := [2]string{a, b}
	if a > b {
		key = [2]string{b, a}
	}
	if v, ok := rt.sensorMemo[key]; ok {
		return v
	}
	v := reg.expandedIgnores[a][b] || reg.expandedIgnores[b][a]
	rt.sensorMemo[key] = v
	return v
}

// routedEvent is one dispatch instruction produced by dispatch: deliver to
// the collider on side "to" of the pair, recording the peer's class as
// "peerClass".
type routedEvent struct {
	to        string // which side of the pair receives the event ("a" or "b")
	peerClass string
}

// dispatch scans the applicable list (sensor iff both sides are sensors,
// non-sensor iff neither, nothing for a mixed pair) for entries
// matching (classA,classB) in either declared direction, and reports which
// side(s) should receive an event and under which peer-class key.
func (rt *routingTable) dispatch(t Transition, classA, classB string, sensorA, sensorB bool) []routedEvent {
	var list []pairRoute
	switch {
	case sensorA && sensorB:
		list = rt.sensor[t]
	case !sensorA && !sensorB:
		list = rt.nonSensor[t]
	default:
		return nil
	}

	var out []routedEvent
	for _, pr := range list {
		if pr.t1 == classA && pr.t2 == classB {
			out = append(out, routedEvent{to: "a", peerClass: classB})
		}
		if pr.t1 == classB && pr.t2 == classA {
			out = append(out, routedEvent{to: "b", peerClass: classA})
		}
	}
	return out
}
