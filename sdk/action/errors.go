package action

import (
	"context"

	"github.com/LumeraProtocol/pastadrop/pkg/errors"
	"github.com/LumeraProtocol/pastadrop/pkg/storekit"
	"github.com/LumeraProtocol/pastadrop/sdk/adapters/aleph"
	"github.com/LumeraProtocol/pastadrop/sdk/preflight"
	"github.com/LumeraProtocol/pastadrop/sdk/signer"
)

var (
	ErrNoWallet = errors.New("no wallet provided")

	ErrMalformedInput          = storekit.ErrMalformedInput
	ErrWrongNetwork            = signer.ErrWrongNetwork
	ErrNoAddress               = signer.ErrNoAddress
	ErrSignatureRejected       = signer.ErrSignatureRejected
	ErrInsufficientEntitlement = preflight.ErrInsufficientEntitlement
	ErrSubmissionFailed        = aleph.ErrSubmissionFailed
	ErrUnavailable             = aleph.ErrUnavailable
)

// ErrorKind groups errors by what the user can do about them.
type ErrorKind string

const (
	KindNone                    ErrorKind = ""
	KindMalformedInput          ErrorKind = "malformed_input"
	KindNoWallet                ErrorKind = "no_wallet"
	KindWrongNetwork            ErrorKind = "wrong_network"
	KindNoAddress               ErrorKind = "no_address"
	KindInsufficientEntitlement ErrorKind = "insufficient_entitlement"
	KindSignatureRejected       ErrorKind = "signature_rejected"
	KindSubmissionFailed        ErrorKind = "submission_failed"
	KindUnavailable             ErrorKind = "unavailable"
	KindCancelled               ErrorKind = "cancelled"
	KindUnknown                 ErrorKind = "unknown"
)

var kindOrder = []struct {
	target error
	kind   ErrorKind
}{
	{ErrMalformedInput, KindMalformedInput},
	{ErrNoWallet, KindNoWallet},
	{ErrWrongNetwork, KindWrongNetwork},
	{ErrNoAddress, KindNoAddress},
	{ErrInsufficientEntitlement, KindInsufficientEntitlement},
	{ErrSignatureRejected, KindSignatureRejected},
	{ErrSubmissionFailed, KindSubmissionFailed},
	{ErrUnavailable, KindUnavailable},
	{context.Canceled, KindCancelled},
	{context.DeadlineExceeded, KindCancelled},
}

// Classify maps err to its ErrorKind.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	for _, k := range kindOrder {
		if errors.Is(err, k.target) {
			return k.kind
		}
	}
	return KindUnknown
}

// Guidance is a short message telling the user what to do next.
func (k ErrorKind) Guidance() string {
	switch k {
	case KindMalformedInput:
		return "Nothing to serve: the paste is empty."
	case KindNoWallet:
		return "Connect a wallet first."
	case KindWrongNetwork:
		return "Switch your wallet to Ethereum mainnet and try again."
	case KindNoAddress:
		return "Your wallet did not share an address. Unlock or reconnect it."
	case KindInsufficientEntitlement:
		return "This address holds no ALEPH tokens, which storing a paste requires."
	case KindSignatureRejected:
		return "The signature request was declined. Nothing was stored."
	case KindSubmissionFailed:
		return "Aleph did not accept the paste. Try again later."
	case KindUnavailable:
		return "Kitchen's closed. Try again later."
	case KindCancelled:
		return "Cancelled."
	case KindNone:
		return ""
	default:
		return "Something went wrong."
	}
}
