package storekit

import (
	"strings"

	"github.com/LumeraProtocol/pastadrop/pkg/errors"
)

// UnsignedEnvelope is a STORE message waiting for its signature. It can
// only be built from ItemContent, so its time and item hash always agree
// with the serialized content.
type UnsignedEnvelope struct {
	chain       Chain
	sender      string
	channel     string
	time        Timestamp
	itemContent string
	itemHash    string
}

// NewUnsignedEnvelope serializes and hashes item and wraps it for chain.
func NewUnsignedEnvelope(chain Chain, channel string, item ItemContent) (UnsignedEnvelope, error) {
	if !chain.Valid() {
		return UnsignedEnvelope{}, errors.Errorf("envelope: unsupported chain %q: %w", chain, ErrMalformedInput)
	}
	if strings.TrimSpace(item.Address) == "" || strings.TrimSpace(item.ItemHash) == "" {
		return UnsignedEnvelope{}, errors.Errorf("envelope: incomplete item content: %w", ErrMalformedInput)
	}
	raw, err := SerializeItemContent(item)
	if err != nil {
		return UnsignedEnvelope{}, err
	}
	return UnsignedEnvelope{
		chain:       chain,
		sender:      item.Address,
		channel:     channel,
		time:        item.Time,
		itemContent: string(raw),
		itemHash:    ItemHash(raw),
	}, nil
}

func (u UnsignedEnvelope) Chain() Chain        { return u.chain }
func (u UnsignedEnvelope) Sender() string      { return u.sender }
func (u UnsignedEnvelope) Channel() string     { return u.channel }
func (u UnsignedEnvelope) Time() Timestamp     { return u.time }
func (u UnsignedEnvelope) ItemContent() string { return u.itemContent }
func (u UnsignedEnvelope) ItemHash() string    { return u.itemHash }

// VerificationBuffer returns the bytes the sender's wallet must sign.
func (u UnsignedEnvelope) VerificationBuffer() []byte {
	return BuildVerificationBuffer(u.chain, u.sender, u.itemHash)
}

// Sign attaches signature and returns the signed envelope.
func (u UnsignedEnvelope) Sign(signature string) (Envelope, error) {
	if u.itemHash == "" {
		return Envelope{}, errors.Errorf("envelope: not built: %w", ErrMalformedInput)
	}
	if signature == "" {
		return Envelope{}, errors.Errorf("envelope: empty signature: %w", ErrMalformedInput)
	}
	return AssembleEnvelope(u.chain, u.sender, u.channel, u.time, u.itemContent, u.itemHash, signature), nil
}

// Envelope is a signed STORE message. Field order is part of the wire
// format.
type Envelope struct {
	Chain       Chain     `json:"chain"`
	Sender      string    `json:"sender"`
	Channel     string    `json:"channel"`
	Time        Timestamp `json:"time"`
	ItemType    string    `json:"item_type"`
	ItemContent string    `json:"item_content"`
	ItemHash    string    `json:"item_hash"`
	Type        string    `json:"type"`
	Signature   string    `json:"signature"`
}

// AssembleEnvelope builds a signed envelope from already computed parts.
// Callers are responsible for consistency; VerifyEnvelope checks it.
func AssembleEnvelope(chain Chain, sender, channel string, ts Timestamp, itemContent, itemHash, signature string) Envelope {
	return Envelope{
		Chain:       chain,
		Sender:      sender,
		Channel:     channel,
		Time:        ts,
		ItemType:    ItemTypeInline,
		ItemContent: itemContent,
		ItemHash:    itemHash,
		Type:        MessageTypeStore,
		Signature:   signature,
	}
}

// VerificationBuffer returns the bytes the envelope's signature covers.
func (e Envelope) VerificationBuffer() []byte {
	return BuildVerificationBuffer(e.Chain, e.Sender, e.ItemHash)
}

// StoredItem decodes the embedded item content.
func (e Envelope) StoredItem() (ItemContent, error) {
	var item ItemContent
	if err := Unmarshal([]byte(e.ItemContent), &item); err != nil {
		return ItemContent{}, errors.Errorf("decode item content: %w", err)
	}
	return item, nil
}
