package audit

import "github.com/rs/zerolog"

// Dispatcher hands events to a worker goroutine so audit writes never sit
// on the request path. A full queue drops the event: auditing is best
// effort and must not break the API.
type Dispatcher struct {
	sink  Sink
	queue chan Event
	log   zerolog.Logger
}

func NewDispatcher(sink Sink, log zerolog.Logger) *Dispatcher {
	d := &Dispatcher{
		sink:  sink,
		queue: make(chan Event, 100),
		log:   log,
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		if err := d.sink.Record(ev); err != nil {
			d.log.Error().Err(err).Str("action", ev.Action).Msg("audit write failed")
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		d.log.Warn().Str("action", ev.Action).Msg("audit queue full, dropping event")
	}
}
