package memorybus

import (
	"sync"

	"github.com/neotube/neotube/internal/ports"
)

// Bus diffuse les événements en mémoire à tous les abonnés.
// Publish ne bloque jamais et ne perd rien: chaque abonné a sa file, vidée par un goroutine.
// Pour les topics "coalescés", des événements consécutifs encore en file se remplacent:
// seul le plus récent est livré, l'ordre avec les autres topics est conservé.
type Bus struct {
	mu        sync.Mutex
	subs      map[*subscriber]struct{}
	coalesced map[string]bool
	closed    bool
}

type Option func(*Bus)

// WithCoalescedTopics déclare les topics dont seule la dernière valeur compte (ex: progression).
func WithCoalescedTopics(topics ...string) Option {
	return func(b *Bus) {
		for _, t := range topics {
			b.coalesced[t] = true
		}
	}
}

func New(opts ...Option) *Bus {
	b := &Bus{subs: make(map[*subscriber]struct{}), coalesced: make(map[string]bool)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Bus) Publish(topic string, payload []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	evt := ports.Event{Topic: topic, Payload: payload}
	for s := range b.subs {
		s.push(evt, b.coalesced[topic])
	}
}

func (b *Bus) Subscribe() (<-chan ports.Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		ch := make(chan ports.Event)
		close(ch)
		return ch, func() {}
	}
	s := newSubscriber()
	b.subs[s] = struct{}{}
	go s.pump()

	cancel := func() {
		b.mu.Lock()
		delete(b.subs, s)
		b.mu.Unlock()
		s.stop()
	}
	return s.out, cancel
}

// Close ferme tous les abonnements; les Publish suivants sont ignorés.
// Les événements encore en file ne sont pas livrés.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for s := range b.subs {
		delete(b.subs, s)
		s.stop()
	}
}

type subscriber struct {
	out  chan ports.Event
	wake chan struct{}
	done chan struct{}
	once sync.Once

	mu    sync.Mutex
	queue []ports.Event
}

func newSubscriber() *subscriber {
	return &subscriber{
		out:  make(chan ports.Event),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

func (s *subscriber) push(evt ports.Event, coalesce bool) {
	s.mu.Lock()
	if n := len(s.queue); coalesce && n > 0 && s.queue[n-1].Topic == evt.Topic {
		s.queue[n-1] = evt
	} else {
		s.queue = append(s.queue, evt)
	}
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscriber) pump() {
	defer close(s.out)
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			select {
			case <-s.wake:
				continue
			case <-s.done:
				return
			}
		}
		evt := s.queue[0]
		s.queue[0] = ports.Event{}
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- evt:
		case <-s.done:
			return
		}
	}
}

func (s *subscriber) stop() {
	s.once.Do(func() { close(s.done) })
}
