// Package errs provides types and support related to web v1 functionality.
package errs

import (
	"errors"
	"net/http"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
)

// Response is the form used for API responses from failures in the API.
type Response struct {
	Error  string            `json:"error"`
	Kind   string            `json:"kind,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Trusted is used to pass an error during the request through the
// application with web specific context.
type Trusted struct {
	Err    error
	Kind   string
	Status int
}

// NewTrusted wraps a provided error with an HTTP status code. This
// function should be used when handlers encounter expected errors.
func NewTrusted(err error, status int) error {
	return &Trusted{Err: err, Status: status}
}

// Error implements the error interface. It uses the default message of the
// wrapped error. This is what will be shown in the services' logs.
func (te *Trusted) Error() string {
	return te.Err.Error()
}

// Unwrap provides access to the wrapped error.
func (te *Trusted) Unwrap() error {
	return te.Err
}

// IsTrusted checks if an error of type Trusted exists.
func IsTrusted(err error) bool {
	var te *Trusted
	return errors.As(err, &te)
}

// GetTrusted returns a copy of the Trusted pointer.
func GetTrusted(err error) *Trusted {
	var te *Trusted
	if !errors.As(err, &te) {
		return nil
	}
	return te
}

// =============================================================================

// Kinds of ledger failures reported to clients.
const (
	KindHashMismatch       = "hash_mismatch"
	KindInvalidTransaction = "invalid_transaction"
	KindSequenceBreak      = "sequence_break"
	KindBrokenLink         = "broken_link"
	KindStructuralFormat   = "structural_format"
	KindNoTransactions     = "no_transactions"
	KindChainRejected      = "chain_rejected"
	KindNotFound           = "not_found"
)

// NewLedger wraps an error returned by the ledger with the status and kind
// a client needs to tell failures apart. Errors the ledger does not expect
// are returned unchanged.
func NewLedger(err error) error {
	var hm *database.HashMismatchError
	var it *database.InvalidTransactionError
	var sb *database.SequenceBreakError
	var bl *database.BrokenLinkError
	var sf *database.StructuralFormatError

	switch {
	case errors.As(err, &hm):
		return &Trusted{Err: err, Kind: KindHashMismatch, Status: http.StatusUnprocessableEntity}
	case errors.As(err, &it), state.IsSubmissionError(err):
		return &Trusted{Err: err, Kind: KindInvalidTransaction, Status: http.StatusUnprocessableEntity}
	case errors.As(err, &sb):
		return &Trusted{Err: err, Kind: KindSequenceBreak, Status: http.StatusConflict}
	case errors.As(err, &bl):
		return &Trusted{Err: err, Kind: KindBrokenLink, Status: http.StatusConflict}
	case errors.As(err, &sf):
		return &Trusted{Err: err, Kind: KindStructuralFormat, Status: http.StatusBadRequest}
	case errors.Is(err, state.ErrNoTransactions):
		return &Trusted{Err: err, Kind: KindNoTransactions, Status: http.StatusConflict}
	case errors.Is(err, state.ErrNoValidTransactions):
		return &Trusted{Err: err, Kind: KindNoTransactions, Status: http.StatusUnprocessableEntity}
	case errors.Is(err, state.ErrChainNotLonger), errors.Is(err, state.ErrGenesisMismatch):
		return &Trusted{Err: err, Kind: KindChainRejected, Status: http.StatusConflict}
	case errors.Is(err, state.ErrNotFound):
		return &Trusted{Err: err, Kind: KindNotFound, Status: http.StatusNotFound}
	}

	return err
}
