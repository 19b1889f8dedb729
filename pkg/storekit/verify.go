package storekit

import "github.com/LumeraProtocol/pastadrop/pkg/errors"

// VerifyEnvelope re-derives everything an envelope claims about itself
// except its signature, which needs chain-specific crypto.
func VerifyEnvelope(env Envelope) error {
	if !env.Chain.Valid() {
		return errors.Errorf("unsupported chain %q: %w", env.Chain, ErrMalformedInput)
	}
	if env.Type != MessageTypeStore || env.ItemType != ItemTypeInline {
		return errors.Errorf("unexpected message type %q/%q: %w", env.Type, env.ItemType, ErrMalformedInput)
	}
	if env.Signature == "" {
		return errors.Errorf("missing signature: %w", ErrMalformedInput)
	}
	if got := ItemHash([]byte(env.ItemContent)); got != env.ItemHash {
		return errors.Errorf("item hash mismatch: have %s, content hashes to %s: %w", env.ItemHash, got, ErrMalformedInput)
	}
	item, err := env.StoredItem()
	if err != nil {
		return errors.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if item.ItemType != ItemTypeStorage {
		return errors.Errorf("item type %q: %w", item.ItemType, ErrMalformedInput)
	}
	if item.Address != env.Sender {
		return errors.Errorf("item address %s does not match sender %s: %w", item.Address, env.Sender, ErrMalformedInput)
	}
	if item.Time != env.Time {
		return errors.Errorf("item time does not match envelope time: %w", ErrMalformedInput)
	}
	return nil
}
