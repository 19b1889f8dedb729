package aleph

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/LumeraProtocol/pastadrop/pkg/errors"
	"github.com/LumeraProtocol/pastadrop/pkg/utils"
)

// Fetch returns the bytes stored under address. Hex SHA-256 addresses are
// checked against the body.
func (a *Adapter) Fetch(ctx context.Context, address string) ([]byte, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, errors.Errorf("empty content address: %w", ErrMalformedInput)
	}
	if a.cache == nil {
		return a.fetch(ctx, address)
	}

	if body, ok := a.cache.Get(address); ok {
		a.logger.Debug(ctx, "Content served from cache", "address", address)
		return clone(body), nil
	}

	// Deduplicate concurrent fetches for the same address
	ch := a.sf.DoChan(address, func() (any, error) {
		if body, ok := a.cache.Get(address); ok {
			return body, nil
		}
		body, err := a.fetch(ctx, address)
		if err != nil {
			return nil, err
		}
		a.storeCached(address, body)
		return body, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			// The shared call ran on another caller's context.
			if isContextErr(res.Err) && ctx.Err() == nil {
				return a.fetch(ctx, address)
			}
			return nil, res.Err
		}
		return clone(res.Val.([]byte)), nil
	}
}

func (a *Adapter) fetch(ctx context.Context, address string) ([]byte, error) {
	endpoint := a.RawURL(address)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Errorf("failed to create request: %w", err)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &UnavailableError{Address: address, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBody))
		a.logger.Warn(ctx, "Gateway did not serve content", "address", address, "status", resp.StatusCode)
		return nil, &UnavailableError{StatusCode: resp.StatusCode, Address: address}
	}

	// Hash while reading so the body is walked once.
	var buf bytes.Buffer
	got, err := utils.Sha256HashReader(io.TeeReader(resp.Body, &buf), resp.ContentLength)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &UnavailableError{StatusCode: resp.StatusCode, Address: address, Err: err}
	}

	body := buf.Bytes()

	if utils.IsHexDigest(address) {
		if got != strings.ToLower(address) {
			a.logger.Error(ctx, "Gateway served content that does not match its address",
				"address", address,
				"digest", got)
			return nil, &UnavailableError{
				StatusCode: resp.StatusCode,
				Address:    address,
				Err:        errors.Errorf("integrity check failed: body hashes to %s", got),
			}
		}
	}

	a.logger.Debug(ctx, "Content fetched", "address", address, "bytes", len(body))
	return body, nil
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
