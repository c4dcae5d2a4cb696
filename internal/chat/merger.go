package chat

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/educatedpolarbear/Green-Buddy-sub000/internal/api"
	"github.com/educatedpolarbear/Green-Buddy-sub000/internal/models"
	"github.com/educatedpolarbear/Green-Buddy-sub000/pkg/logger"
)

var (
	// ErrChannelActive refuses a second open while a channel is live. Group
	// chat membership is exclusive; callers must close the current channel
	// first and surface the constraint to the user.
	ErrChannelActive = errors.New("another channel is already open")

	// ErrNoChannel is returned by operations that need an open channel.
	ErrNoChannel = errors.New("no channel open")
)

// Merger reconciles a channel's REST-fetched history with the multiplexed
// realtime stream. History is kept in display order: the reversed history
// page first, then live events in arrival order regardless of their
// timestamps. Message ids arriving more than once are appended as-is.
type Merger struct {
	client *api.Client
	stream *Stream

	mu        sync.Mutex
	channelID int64
	active    bool
	history   []models.ChannelMessage
	sub       *Subscription
}

// NewMerger creates a Merger on top of the REST client and the shared stream.
func NewMerger(client *api.Client, stream *Stream) *Merger {
	return &Merger{client: client, stream: stream}
}

// Open loads the channel's history and starts consuming live events for it.
// The server pages history newest-first; it is reversed to chronological
// order and replaces any previous state wholesale.
func (m *Merger) Open(ctx context.Context, channelID int64) error {
	m.mu.Lock()
	if m.active {
		m.mu.Unlock()
		return ErrChannelActive
	}
	m.active = true
	m.channelID = channelID
	m.mu.Unlock()

	page, err := m.client.ChatHistory(ctx, channelID)
	if err != nil {
		m.mu.Lock()
		m.active = false
		m.mu.Unlock()
		return err
	}

	history := make([]models.ChannelMessage, len(page))
	for i, msg := range page {
		history[len(page)-1-i] = msg
	}

	m.mu.Lock()
	m.history = history
	m.sub = m.stream.Subscribe()
	sub := m.sub
	m.mu.Unlock()

	go m.consume(sub, channelID)

	logger.Log.WithFields(map[string]interface{}{
		"channel_id": channelID,
		"history":    len(history),
	}).Info("Channel opened")
	return nil
}

// Close unsubscribes from the stream and releases the active channel slot so
// handlers never leak across channel switches.
func (m *Merger) Close() {
	m.mu.Lock()
	sub := m.sub
	m.sub = nil
	m.active = false
	m.history = nil
	m.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
}

// Active reports whether a channel is currently open.
func (m *Merger) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Messages returns a snapshot of the channel history in display order.
func (m *Merger) Messages() []models.ChannelMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.ChannelMessage, len(m.history))
	copy(out, m.history)
	return out
}

// Send posts a message to the open channel. The message shows up through the
// stream once the server broadcasts it, not from this call.
func (m *Merger) Send(ctx context.Context, content string) error {
	m.mu.Lock()
	if !m.active {
		m.mu.Unlock()
		return ErrNoChannel
	}
	channelID := m.channelID
	m.mu.Unlock()

	return m.client.SendChatMessage(ctx, channelID, content)
}

// consume is the single writer for the history slice while the channel is
// open. The stream is shared across all channels, so every event is filtered
// by channel id before it touches state.
func (m *Merger) consume(sub *Subscription, channelID int64) {
	for envelope := range sub.C {
		switch envelope.Event {
		case models.EventGroupChatMessage:
			var msg models.ChannelMessage
			if err := json.Unmarshal(envelope.Data, &msg); err != nil {
				logger.Log.WithError(err).Warn("Malformed chat message event")
				continue
			}
			if msg.GroupID != channelID {
				continue
			}
			m.append(sub, msg)

		case models.EventGroupChatMessageDeleted:
			var deleted models.ChatMessageDeleted
			if err := json.Unmarshal(envelope.Data, &deleted); err != nil {
				logger.Log.WithError(err).Warn("Malformed chat deletion event")
				continue
			}
			if deleted.GroupID != channelID {
				continue
			}
			m.remove(sub, deleted.MessageID)
		}
	}
}

// append ignores events from a superseded subscription so a reopened channel
// never receives a stale consumer's backlog.
func (m *Merger) append(sub *Subscription, msg models.ChannelMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.active || m.sub != sub {
		return
	}
	m.history = append(m.history, msg)
}

func (m *Merger) remove(sub *Subscription, messageID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.active || m.sub != sub {
		return
	}
	kept := m.history[:0]
	for _, msg := range m.history {
		if msg.ID != messageID {
			kept = append(kept, msg)
		}
	}
	m.history = kept
}
