package isoscene

// TriggerType identifies an animation callback.
type TriggerType uint8

const (
	TriggerTick TriggerType = iota
	TriggerBegin
	TriggerMid
	TriggerEnd
)

func (t TriggerType) String() string {
	switch t {
	case TriggerTick:
		return "tick"
	case TriggerBegin:
		return "begin"
	case TriggerMid:
		return "mid"
	case TriggerEnd:
		return "end"
	default:
		return "unknown"
	}
}

// TriggerEvent is published for every animation callback of a character
// attached to an event store. It is emitted before user hooks run, so vetoed
// triggers are still observable.
type TriggerEvent struct {
	Type        TriggerType
	CharacterID uint32
	Kind        string
	Mode        string
	FrameIndex  float64
}

// EventStore receives trigger events. Implementations are called from the
// tick goroutine and must not block.
type EventStore interface {
	EmitTrigger(e TriggerEvent)
}

// EventFunc adapts a function to EventStore.
type EventFunc func(e TriggerEvent)

// EmitTrigger implements EventStore.
func (f EventFunc) EmitTrigger(e TriggerEvent) { f(e) }
