package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants
const (
	// Client to server messages
	MessageTypePlayRound MessageType = "play_round"
	MessageTypeNewGame   MessageType = "new_game"
	MessageTypeExport    MessageType = "export"

	// Sent by the client to ask for stats and by the server in reply
	MessageTypeStats MessageType = "stats"

	// Server to client messages
	MessageTypeRound       MessageType = "round"
	MessageTypeGameStarted MessageType = "game_started"
	MessageTypeExported    MessageType = "exported"
	MessageTypeError       MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}

// Error codes carried in ErrorData
const (
	ErrCodeInvalidMessage = "invalid_message"
	ErrCodeUnknownType    = "unknown_message_type"
	ErrCodeGameOver       = "game_over"
	ErrCodeExportFailed   = "export_failed"
	ErrCodeExportDisabled = "export_disabled"
	ErrCodeInternal       = "internal_error"
)
