package models

import "encoding/json"

// Event names multiplexed over the shared realtime stream.
const (
	EventGroupChatMessage        = "group_chat_message"
	EventGroupChatMessageDeleted = "group_chat_message_deleted"
)

// ChannelMessage is one message in a group chat channel.
type ChannelMessage struct {
	ID         int64  `json:"id"`
	GroupID    int64  `json:"group_id"`
	AuthorID   int64  `json:"author_id"`
	AuthorName string `json:"author_name"`
	Content    string `json:"content"`
	CreatedAt  string `json:"created_at"`
}

// ChatMessageDeleted announces that a message was removed from a channel.
type ChatMessageDeleted struct {
	MessageID int64 `json:"message_id"`
	GroupID   int64 `json:"group_id"`
}

// StreamEnvelope frames every event on the realtime stream. The stream is
// shared across all channels; Data payloads carry the group_id used for
// channel filtering.
type StreamEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}
