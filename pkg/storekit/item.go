package storekit

import (
	"strings"
	"time"

	"github.com/LumeraProtocol/pastadrop/pkg/errors"
)

const (
	// ItemTypeStorage is the item_type inside STORE item content.
	ItemTypeStorage = "storage"
	// ItemTypeInline marks item content carried inside the envelope.
	ItemTypeInline = "inline"
	// MessageTypeStore is the envelope message type.
	MessageTypeStore = "STORE"
)

// ErrMalformedInput reports input that cannot form a valid message.
var ErrMalformedInput = errors.New("malformed input")

// Chain is the signer family tag carried in the envelope.
type Chain string

const (
	ChainETH Chain = "ETH"
	ChainSOL Chain = "SOL"
)

// Valid reports whether c is one of the supported chain tags.
func (c Chain) Valid() bool {
	return c == ChainETH || c == ChainSOL
}

func (c Chain) String() string { return string(c) }

// Timestamp is seconds since the Unix epoch with millisecond precision.
type Timestamp float64

// TimestampFrom truncates t to milliseconds and expresses it in seconds.
func TimestampFrom(t time.Time) Timestamp {
	return Timestamp(float64(t.UnixMilli()) / 1000)
}

// Now returns the current Timestamp.
func Now() Timestamp { return TimestampFrom(time.Now()) }

// Time converts ts back to a time.Time.
func (ts Timestamp) Time() time.Time {
	return time.UnixMilli(int64(float64(ts)*1000 + 0.5))
}

// ItemContent describes the stored file. Field order is part of the wire
// format and must not change.
type ItemContent struct {
	Address  string    `json:"address"`
	ItemType string    `json:"item_type"`
	ItemHash string    `json:"item_hash"`
	Time     Timestamp `json:"time"`
}

// NewItemContent builds storage item content for fileHash owned by sender.
func NewItemContent(sender, fileHash string, ts Timestamp) (ItemContent, error) {
	if strings.TrimSpace(sender) == "" {
		return ItemContent{}, errors.Errorf("item content: empty sender: %w", ErrMalformedInput)
	}
	if strings.TrimSpace(fileHash) == "" {
		return ItemContent{}, errors.Errorf("item content: empty file hash: %w", ErrMalformedInput)
	}
	return ItemContent{
		Address:  sender,
		ItemType: ItemTypeStorage,
		ItemHash: fileHash,
		Time:     ts,
	}, nil
}
