package aleph

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/LumeraProtocol/pastadrop/pkg/errors"
	"github.com/LumeraProtocol/pastadrop/pkg/storekit"
)

const (
	statusSuccess   = "success"
	maxResponseBody = 1 << 20
)

type submitMetadata struct {
	Message storekit.Envelope `json:"message"`
	Sync    bool              `json:"sync"`
}

// Submit posts env and the raw file bytes to the storage API.
//
// The API is known to answer some accepted submissions with a non-2xx
// status, so a body whose status is "success" counts as accepted whatever
// the status code.
func (a *Adapter) Submit(ctx context.Context, env storekit.Envelope, raw []byte) (*SubmitResult, error) {
	body, contentType, err := encodeSubmission(env, raw)
	if err != nil {
		return nil, err
	}
	localHash := storekit.ContentAddress(raw)
	endpoint := a.apiServer + addFilePath

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, errors.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	a.logger.Debug(ctx, "Submitting STORE message",
		"url", endpoint,
		"itemHash", env.ItemHash,
		"bytes", len(raw))

	resp, err := a.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		a.logger.Error(ctx, "Aleph submission transport error", "error", err)
		return nil, &SubmissionError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &SubmissionError{StatusCode: resp.StatusCode, Err: errors.Errorf("read response: %w", err)}
	}

	var parsed submitResponse
	// An unparsable body leaves parsed empty; the status code decides.
	_ = json.Unmarshal(respBody, &parsed)

	ok2xx := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !ok2xx && parsed.Status != statusSuccess {
		a.logger.Error(ctx, "Aleph submission rejected",
			"status", resp.StatusCode,
			"body", string(respBody))
		return nil, &SubmissionError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	if !ok2xx {
		a.logger.Warn(ctx, "Aleph reported success with a non-2xx status",
			"status", resp.StatusCode,
			"itemHash", env.ItemHash)
	}

	confirmed := parsed.Hash
	if confirmed == "" {
		confirmed = localHash
	} else if confirmed != localHash {
		a.logger.Warn(ctx, "Aleph confirmed a different file hash",
			"local", localHash,
			"confirmed", confirmed)
	}

	a.logger.Info(ctx, "STORE message accepted",
		"itemHash", env.ItemHash,
		"fileHash", confirmed,
		"status", resp.StatusCode)

	return &SubmitResult{
		ConfirmedHash: confirmed,
		LocalHash:     localHash,
		StatusCode:    resp.StatusCode,
		Status:        parsed.Status,
	}, nil
}

// encodeSubmission builds the multipart body: "metadata" then "file".
func encodeSubmission(env storekit.Envelope, raw []byte) (*bytes.Buffer, string, error) {
	meta, err := storekit.Marshal(submitMetadata{Message: env, Sync: true})
	if err != nil {
		return nil, "", errors.Errorf("encode metadata: %w", err)
	}

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	if err := mw.WriteField("metadata", string(meta)); err != nil {
		return nil, "", errors.Errorf("write metadata field: %w", err)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="blob"`)
	h.Set("Content-Type", "application/octet-stream")
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", errors.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(raw); err != nil {
		return nil, "", errors.Errorf("write file part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", errors.Errorf("close multipart body: %w", err)
	}
	return buf, mw.FormDataContentType(), nil
}
