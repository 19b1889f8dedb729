package action

import (
	"context"
	"strings"

	"github.com/LumeraProtocol/pastadrop/pkg/errors"
	"github.com/LumeraProtocol/pastadrop/pkg/logtrace"
	"github.com/LumeraProtocol/pastadrop/pkg/storekit"
	"github.com/LumeraProtocol/pastadrop/sdk/event"
	"github.com/LumeraProtocol/pastadrop/sdk/signer"
)

func (c *ClientImpl) CreatePaste(ctx context.Context, wallet Wallet, text string) (PasteResult, error) {
	if strings.TrimSpace(text) == "" {
		return PasteResult{}, errors.Errorf("empty paste: %w", ErrMalformedInput)
	}
	if isNil(wallet) {
		return PasteResult{}, ErrNoWallet
	}
	s, err := wallet.newSigner(c.config.Ethereum.ChainID)
	if err != nil {
		return PasteResult{}, err
	}

	cid := event.NewCorrelationID()
	ctx = logtrace.CtxWithCorrelationID(ctx, cid)
	chain := s.Chain()

	res, err := c.createPaste(ctx, cid, s, text)
	if err != nil {
		kind := Classify(err)
		c.logger.Warn(ctx, "Paste failed", "chain", chain, "kind", kind, "error", err)
		c.emit(ctx, event.PasteFailed, cid, chain, map[event.EventDataKey]interface{}{
			event.KeyError:     err.Error(),
			event.KeyErrorKind: string(kind),
		})
		return PasteResult{}, err
	}
	return res, nil
}

func (c *ClientImpl) createPaste(ctx context.Context, cid string, s signer.Signer, text string) (PasteResult, error) {
	chain := s.Chain()
	raw := []byte(text)
	c.emit(ctx, event.PasteStarted, cid, chain, map[event.EventDataKey]interface{}{event.KeyBytes: len(raw)})

	sender, err := s.Address(ctx)
	if err != nil {
		return PasteResult{}, err
	}
	c.emit(ctx, event.PasteAddressResolved, cid, chain, map[event.EventDataKey]interface{}{event.KeySender: sender})

	if evmSigner, ok := s.(*signer.EVM); ok {
		if err := c.preflight.Check(ctx, evmSigner.Provider(), sender); err != nil {
			return PasteResult{}, err
		}
		c.emit(ctx, event.PastePreflightPassed, cid, chain, map[event.EventDataKey]interface{}{event.KeySender: sender})
	}

	fileHash := storekit.ContentAddress(raw)
	item, err := storekit.NewItemContent(sender, fileHash, storekit.TimestampFrom(c.now()))
	if err != nil {
		return PasteResult{}, err
	}
	unsigned, err := storekit.NewUnsignedEnvelope(chain, c.config.Aleph.Channel, item)
	if err != nil {
		return PasteResult{}, err
	}

	c.logger.Debug(ctx, "Requesting signature", "chain", chain, "sender", sender, "itemHash", unsigned.ItemHash())
	c.emit(ctx, event.PasteSignatureRequest, cid, chain, map[event.EventDataKey]interface{}{
		event.KeyItemHash: unsigned.ItemHash(),
		event.KeyFileHash: fileHash,
	})
	sig, err := s.Sign(ctx, unsigned.VerificationBuffer())
	if err != nil {
		return PasteResult{}, err
	}
	c.emit(ctx, event.PasteSignatureReceived, cid, chain, map[event.EventDataKey]interface{}{event.KeyItemHash: unsigned.ItemHash()})

	env, err := unsigned.Sign(sig)
	if err != nil {
		return PasteResult{}, err
	}

	c.emit(ctx, event.PasteSubmitted, cid, chain, map[event.EventDataKey]interface{}{
		event.KeyItemHash: env.ItemHash,
		event.KeyChannel:  env.Channel,
	})
	submitted, err := c.aleph.Submit(ctx, env, raw)
	if err != nil {
		return PasteResult{}, err
	}

	result := PasteResult{
		FileHash: submitted.ConfirmedHash,
		ItemHash: env.ItemHash,
		Sender:   sender,
		Chain:    chain,
	}
	c.logger.Info(ctx, "Paste stored", "chain", chain, "fileHash", result.FileHash, "itemHash", result.ItemHash)
	c.emit(ctx, event.PasteStored, cid, chain, map[event.EventDataKey]interface{}{
		event.KeyFileHash: result.FileHash,
		event.KeyItemHash: result.ItemHash,
		event.KeySender:   sender,
	})
	return result, nil
}
