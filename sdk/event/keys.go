package event

// EventDataKey defines standard keys used in event data
type EventDataKey string

const (
	KeyError     EventDataKey = "error"
	KeyErrorKind EventDataKey = "error_kind"
	KeySender    EventDataKey = "sender"
	KeyFileHash  EventDataKey = "file_hash"
	KeyItemHash  EventDataKey = "item_hash"
	KeyAddress   EventDataKey = "address"
	KeyBytes     EventDataKey = "bytes"
	KeyChannel   EventDataKey = "channel"
	KeyCached    EventDataKey = "cached"
)
