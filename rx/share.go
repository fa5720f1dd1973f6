package rx

// multicast shares one upstream subscription among all of its subscribers.
// The upstream is connected by the first subscriber and disconnected when the
// last one leaves; a later subscriber connects it again. Upstream completion
// or error is forwarded to every current subscriber and resets the multicast.
type multicast[T any] struct {
	source Observable[T]
	replay bool

	subs      []*Subscriber[T]
	conn      *Subscription
	connected bool
	gen       uint64

	last    T
	hasLast bool
}

// Share multicasts src: one upstream subscription no matter how many
// subscribers, reference counted.
func Share[T any](src Observable[T]) Observable[T] {
	m := &multicast[T]{source: src}
	return m.observable()
}

// ShareReplay is Share that also hands the latest value to every new
// subscriber. The cache holds one value and is dropped on disconnect, so a
// reconnecting subscriber only ever sees fresh values.
func ShareReplay[T any](src Observable[T]) Observable[T] {
	m := &multicast[T]{source: src, replay: true}
	return m.observable()
}

func (m *multicast[T]) observable() Observable[T] {
	return Create(func(s *Subscriber[T]) func() {
		m.subs = append(m.subs, s)
		if m.replay && m.hasLast {
			s.Next(m.last)
		}
		if !m.connected && !s.Closed() {
			m.connect()
		}
		return func() { m.remove(s) }
	})
}

func (m *multicast[T]) connect() {
	m.connected = true
	m.gen++
	gen := m.gen
	conn := m.source.Subscribe(Observer[T]{
		OnNext:     m.next,
		OnError:    m.error,
		OnComplete: m.complete,
	})
	if m.connected && m.gen == gen {
		m.conn = conn
		return
	}
	// terminated or disconnected while connecting
	conn.Unsubscribe()
}

func (m *multicast[T]) next(v T) {
	if m.replay {
		m.last, m.hasLast = v, true
	}
	for _, s := range m.subs {
		s.Next(v)
	}
}

func (m *multicast[T]) error(err error) {
	for _, s := range m.reset() {
		s.Error(err)
	}
}

func (m *multicast[T]) complete() {
	for _, s := range m.reset() {
		s.Complete()
	}
}

func (m *multicast[T]) reset() []*Subscriber[T] {
	subs := m.subs
	m.subs = nil
	m.connected = false
	m.conn = nil
	m.dropCache()
	return subs
}

func (m *multicast[T]) remove(s *Subscriber[T]) {
	for i, other := range m.subs {
		if other == s {
			m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
			break
		}
	}
	if len(m.subs) > 0 || !m.connected {
		return
	}
	m.connected = false
	conn := m.conn
	m.conn = nil
	m.dropCache()
	if conn != nil {
		conn.Unsubscribe()
	}
}

func (m *multicast[T]) dropCache() {
	var zero T
	m.last, m.hasLast = zero, false
}
