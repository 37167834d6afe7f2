package reef

// Event is a one-shot story beat. It fires when the elapsed sequence time
// reaches At, or, when When is set, as soon as When reports true. Action runs
// at most once per sequencer run.
type Event struct {
	Name string
	// At is the trigger time in seconds after Start. Ignored when When is set.
	At float64
	// When is an optional predicate trigger.
	When   func() bool
	Action func()
}

func (e *Event) ready(elapsed float64) bool {
	if e.When != nil {
		return e.When()
	}
	return elapsed >= e.At
}

// EventSequencer runs Events strictly in list order. Only the event at the
// cursor is evaluated each update, so a later event never fires before an
// earlier one whatever its own trigger says.
type EventSequencer struct {
	// OnFire, if set, is called after each event's action.
	OnFire func(index int, e Event)
	// Origin is the start time Scene.Reset restarts the sequence from.
	Origin float64

	events []Event
	cursor int
	start  float64
	active bool
}

// NewEventSequencer creates an inactive, empty sequencer.
func NewEventSequencer() *EventSequencer {
	return &EventSequencer{}
}

// Add appends an event to the end of the sequence.
func (s *EventSequencer) Add(e Event) {
	s.events = append(s.events, e)
}

// Len returns the number of events.
func (s *EventSequencer) Len() int { return len(s.events) }

// Cursor returns the index of the next event to fire.
func (s *EventSequencer) Cursor() int { return s.cursor }

// Active reports whether the sequencer has been started.
func (s *EventSequencer) Active() bool { return s.active }

// Done reports whether every event has fired.
func (s *EventSequencer) Done() bool { return s.cursor >= len(s.events) }

// StartTime returns the virtual time passed to Start.
func (s *EventSequencer) StartTime() float64 { return s.start }

// Start rewinds the cursor to the first event and records t0 as the origin
// for trigger times.
func (s *EventSequencer) Start(t0 float64) {
	s.active = true
	s.start = t0
	s.cursor = 0
}

// Reset stops the sequencer and rewinds the cursor. Origin is kept.
func (s *EventSequencer) Reset() {
	s.active = false
	s.start = 0
	s.cursor = 0
}

// Update evaluates the event at the cursor against virtual time t and fires
// it if ready. At most one event fires per call.
func (s *EventSequencer) Update(t float64) {
	if !s.active || s.cursor >= len(s.events) {
		return
	}
	idx := s.cursor
	e := s.events[idx]
	if !e.ready(t - s.start) {
		return
	}
	// Advance before running the action so an action that restarts or
	// inspects the sequencer sees a consistent cursor.
	s.cursor++
	if e.Action != nil {
		e.Action()
	}
	if s.OnFire != nil {
		s.OnFire(idx, e)
	}
}
