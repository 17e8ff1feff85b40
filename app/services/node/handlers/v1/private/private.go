// Package private maintains the group of handlers for operator access. These
// routes change the chain outside of transaction submission.
package private

import (
	"context"
	"net/http"

	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of operator endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// Status returns the current status of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	latest := h.State.RetrieveLatestBlock()

	status := struct {
		LatestBlockHash   string `json:"latest_block_hash"`
		LatestBlockNumber uint64 `json:"latest_block_number"`
		Uncommitted       int    `json:"uncommitted"`
	}{
		LatestBlockHash:   latest.Hash,
		LatestBlockNumber: latest.Number(),
		Uncommitted:       h.State.QueryMempoolLength(),
	}

	return web.Respond(ctx, w, status, http.StatusOK)
}

// AssembleBlock builds the next block from the mempool and appends it to the
// chain.
func (h Handlers) AssembleBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	report, err := h.State.AssembleBlock()
	if err != nil {
		return errs.NewLedger(err)
	}

	h.Log.Infow("assemble block", "traceid", web.GetTraceID(ctx), "blk", report.Block.Number(), "accepted", len(report.Accepted), "discarded", len(report.Discarded))

	return web.Respond(ctx, w, report, http.StatusOK)
}

// ProposeBlock takes a single candidate block and appends it to the chain if
// it extends the current tip.
func (h Handlers) ProposeBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	data, err := web.ReadBody(r)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	block, err := database.DecodeBlock(data)
	if err != nil {
		return errs.NewLedger(err)
	}

	h.Log.Infow("propose block", "traceid", web.GetTraceID(ctx), "blk", block.Number(), "hash", block.Hash)

	if err := h.State.ProcessProposedBlock(block); err != nil {
		h.Log.Infow("propose block", "traceid", web.GetTraceID(ctx), "status", "rejected", "ERROR", err)
		return errs.NewLedger(err)
	}

	resp := struct {
		Status string `json:"status"`
		Block  uint64 `json:"block"`
	}{
		Status: "accepted",
		Block:  block.Number(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// ReplaceChain takes a serialized chain and replaces the node's chain with it
// when it is valid and longer.
func (h Handlers) ReplaceChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	data, err := web.ReadBody(r)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	chain, err := database.DecodeChain(data)
	if err != nil {
		return errs.NewLedger(err)
	}

	if err := h.State.ReplaceChain(chain); err != nil {
		return errs.NewLedger(err)
	}

	latest := h.State.RetrieveLatestBlock()

	h.Log.Infow("replace chain", "traceid", web.GetTraceID(ctx), "blocks", len(chain), "hash", latest.Hash)

	resp := struct {
		Status string `json:"status"`
		Blocks int    `json:"blocks"`
	}{
		Status: "replaced",
		Blocks: len(chain),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
