package chat

import (
	"context"
	"sync"

	"github.com/educatedpolarbear/Green-Buddy-sub000/internal/models"
	"github.com/educatedpolarbear/Green-Buddy-sub000/pkg/credentials"
	"github.com/educatedpolarbear/Green-Buddy-sub000/pkg/logger"
	"github.com/gorilla/websocket"
)

// subscriptionBuffer bounds how far a slow consumer may fall behind before
// events are dropped for it.
const subscriptionBuffer = 64

// Stream is the client side of the shared realtime event stream. One
// connection multiplexes events for every channel; consumers subscribe and
// filter by payload.
type Stream struct {
	conn *websocket.Conn

	mu   sync.Mutex
	subs map[int]*Subscription
	next int

	closeOnce sync.Once
	done      chan struct{}
}

// Subscription is a structured handle on the stream. Events arrive on C until
// Unsubscribe is called or the stream closes, at which point C is closed.
type Subscription struct {
	C chan models.StreamEnvelope

	id     int
	stream *Stream
	once   sync.Once
}

// Unsubscribe detaches the handle and closes C. Safe to call more than once,
// so component teardown can always call it unconditionally.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.stream.mu.Lock()
		delete(s.stream.subs, s.id)
		s.stream.mu.Unlock()
		close(s.C)
	})
}

// Connect dials the realtime stream, authenticating with the stored token,
// and starts the read loop.
func Connect(ctx context.Context, wsURL string, creds credentials.Provider) (*Stream, error) {
	token, err := creds.Token()
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL+"?token="+token, nil)
	if err != nil {
		return nil, err
	}

	s := &Stream{
		conn: conn,
		subs: make(map[int]*Subscription),
		done: make(chan struct{}),
	}
	go s.readLoop()
	return s, nil
}

// Subscribe attaches a new consumer to the stream.
func (s *Stream) Subscribe() *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	sub := &Subscription{
		C:      make(chan models.StreamEnvelope, subscriptionBuffer),
		id:     s.next,
		stream: s,
	}
	s.subs[sub.id] = sub
	return sub
}

// Close tears the connection down and closes every subscription.
func (s *Stream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.conn.Close()
	})
	return err
}

func (s *Stream) readLoop() {
	defer s.closeAllSubs()

	for {
		var envelope models.StreamEnvelope
		if err := s.conn.ReadJSON(&envelope); err != nil {
			select {
			case <-s.done:
			default:
				logger.Log.WithError(err).Warn("Realtime stream read failed")
				s.Close()
			}
			return
		}
		s.dispatch(envelope)
	}
}

func (s *Stream) dispatch(envelope models.StreamEnvelope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs {
		select {
		case sub.C <- envelope:
		default:
			logger.Log.WithField("event", envelope.Event).Warn("Dropping stream event for slow subscriber")
		}
	}
}

func (s *Stream) closeAllSubs() {
	s.mu.Lock()
	subs := make([]*Subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
}
