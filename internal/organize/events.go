package organize

// Stage names the pipeline phase a run is in.
type Stage string

const (
	StageIdle       Stage = "Idle"
	StageScanning   Stage = "Scanning"
	StageHashing    Stage = "Hashing"
	StageOrganizing Stage = "Organizing"
	StageComplete   Stage = "Complete"
	StageFailed     Stage = "Failed"
)

// EventKind distinguishes the three event streams a run emits.
type EventKind string

const (
	EventStage    EventKind = "stage"
	EventProgress EventKind = "progress"
	EventLog      EventKind = "log"
)

// Event is one notification from a running engine. Stage is always set;
// Percent is meaningful for progress events and Line for log events.
type Event struct {
	Kind    EventKind
	Stage   Stage
	Percent float64
	Line    string
}

// Observer receives events synchronously on the engine goroutine.
type Observer interface {
	Notify(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Notify calls f(ev).
func (f ObserverFunc) Notify(ev Event) { f(ev) }

type emitter struct {
	observer Observer
	stage    Stage
}

func (e *emitter) setStage(stage Stage) {
	e.stage = stage
	e.send(Event{Kind: EventStage, Stage: stage})
}

func (e *emitter) progress(percent float64) {
	if percent > 100 {
		percent = 100
	}
	e.send(Event{Kind: EventProgress, Stage: e.stage, Percent: percent})
}

func (e *emitter) line(text string) {
	e.send(Event{Kind: EventLog, Stage: e.stage, Line: text})
}

func (e *emitter) send(ev Event) {
	if e.observer != nil {
		e.observer.Notify(ev)
	}
}
