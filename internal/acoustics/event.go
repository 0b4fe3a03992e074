package acoustics

import (
	"fmt"
	"strings"
)

// EventType тип события шага, по которому EventSelector выбирает звук
type EventType int

const (
	EventStep EventType = iota
	EventWalk
	EventWander
	EventRun
	EventJump
	EventLand
	EventSwim
	EventClimb
	EventClimbRun
	EventDown
	EventUp
	EventMessage
)

var eventNames = [...]string{
	EventStep:     "step",
	EventWalk:     "walk",
	EventWander:   "wander",
	EventRun:      "run",
	EventJump:     "jump",
	EventLand:     "land",
	EventSwim:     "swim",
	EventClimb:    "climb",
	EventClimbRun: "climb_run",
	EventDown:     "down",
	EventUp:       "up",
	EventMessage:  "message",
}

func (e EventType) String() string {
	if e >= 0 && int(e) < len(eventNames) {
		return eventNames[e]
	}
	return fmt.Sprintf("event(%d)", int(e))
}

// ParseEventType разбирает имя события из JSON библиотеки
func ParseEventType(name string) (EventType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range eventNames {
		if n == name {
			return EventType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown event type %q", name)
}

// Fallback событие, которое пробуется, если у селектора нет звука для e.
// run -> walk, climb_run -> climb, step -> walk и т.д.
func (e EventType) Fallback() (EventType, bool) {
	switch e {
	case EventStep, EventRun, EventWander:
		return EventWalk, true
	case EventClimbRun:
		return EventClimb, true
	case EventDown, EventUp:
		return EventClimb, true
	default:
		return 0, false
	}
}
