package action

import (
	"context"
	"strings"

	"github.com/LumeraProtocol/pastadrop/pkg/errors"
	"github.com/LumeraProtocol/pastadrop/pkg/logtrace"
	"github.com/LumeraProtocol/pastadrop/sdk/event"
)

func (c *ClientImpl) FetchPaste(ctx context.Context, address string) ([]byte, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, errors.Errorf("empty content address: %w", ErrMalformedInput)
	}

	cid := event.NewCorrelationID()
	ctx = logtrace.CtxWithCorrelationID(ctx, cid)
	c.emit(ctx, event.FetchStarted, cid, "", map[event.EventDataKey]interface{}{event.KeyAddress: address})

	body, err := c.aleph.Fetch(ctx, address)
	if err != nil {
		c.logger.Warn(ctx, "Fetch failed", "address", address, "error", err)
		c.emit(ctx, event.FetchFailed, cid, "", map[event.EventDataKey]interface{}{
			event.KeyAddress:   address,
			event.KeyError:     err.Error(),
			event.KeyErrorKind: string(Classify(err)),
		})
		return nil, err
	}

	c.emit(ctx, event.FetchCompleted, cid, "", map[event.EventDataKey]interface{}{
		event.KeyAddress: address,
		event.KeyBytes:   len(body),
	})
	return body, nil
}
