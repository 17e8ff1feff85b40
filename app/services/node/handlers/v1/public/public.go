// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/validate"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	id, ch := h.Evts.Acquire()
	defer h.Evts.Release(id)

	h.Log.Infow("events", "traceid", web.GetTraceID(ctx), "receiver", id)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// SubmitTransaction adds a new transaction to the mempool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req submitTx
	if err := web.Decode(r, &req); err != nil {
		if validate.IsFieldErrors(err) {
			return err
		}
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("submit tran", "traceid", web.GetTraceID(ctx), "tx", req.Tx)

	id, err := h.State.SubmitTransaction(req.Tx)
	if err != nil {
		return errs.NewLedger(err)
	}

	resp := submitted{
		ID:     id,
		Status: "transaction added to mempool",
	}

	return web.Respond(ctx, w, resp, http.StatusAccepted)
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	mempool := h.State.RetrieveMempool()

	trans := make([]candidate, len(mempool))
	for i, c := range mempool {
		trans[i] = candidate{
			ID:       c.ID,
			Tx:       c.Tx,
			Received: c.Received,
		}
	}

	return web.Respond(ctx, w, trans, http.StatusOK)
}

// Accounts returns the current balances for all accounts or the one
// specified.
func (h Handlers) Accounts(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	accountID := database.AccountID(web.Param(r, "account"))

	var acts []account
	switch accountID {
	case "":
		balances := h.State.RetrieveBalances()
		acts = make([]account, 0, len(balances))
		for _, accountID := range balances.Accounts() {
			acts = append(acts, account{Account: accountID, Balance: balances[accountID]})
		}

	default:
		balance, err := h.State.QueryAccount(accountID)
		if err != nil {
			return errs.NewLedger(fmt.Errorf("account %q: %w", accountID, err))
		}
		acts = []account{{Account: accountID, Balance: balance}}
	}

	latest := h.State.RetrieveLatestBlock()

	ai := actInfo{
		LatestBlock: latest.Hash,
		BlockNumber: latest.Number(),
		Uncommitted: h.State.QueryMempoolLength(),
		Accounts:    acts,
	}

	return web.Respond(ctx, w, ai, http.StatusOK)
}

// BlocksByAccount returns all the blocks that reference the account or every
// block when no account is specified.
func (h Handlers) BlocksByAccount(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	accountID := database.AccountID(web.Param(r, "account"))

	blocks, err := h.State.QueryBlocksByAccount(accountID)
	if err != nil {
		return err
	}

	if len(blocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// BlocksByNumber returns the blocks in the specified range. Either end can be
// "latest".
func (h Handlers) BlocksByNumber(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	from, err := blockNumber(web.Param(r, "from"))
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("from: %w", err), http.StatusBadRequest)
	}

	to, err := blockNumber(web.Param(r, "to"))
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("to: %w", err), http.StatusBadRequest)
	}

	if from != state.QueryLatest && to != state.QueryLatest && from > to {
		return errs.NewTrusted(errors.New("from greater than to"), http.StatusBadRequest)
	}

	blocks := h.State.QueryBlocksByNumber(from, to)
	if len(blocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// Chain returns the canonical serialization of the node's chain.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	chain, err := h.State.RetrieveChain()
	if err != nil {
		return err
	}

	data, err := chain.Encode()
	if err != nil {
		return err
	}

	return web.RespondRaw(ctx, w, data, http.StatusOK)
}

// CheckChain replays the serialized chain in the request body without
// touching the node's own chain and returns the balances it implies.
func (h Handlers) CheckChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	data, err := web.ReadBody(r)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	chain, err := database.DecodeChain(data)
	if err != nil {
		return errs.NewLedger(err)
	}

	ev := func(v string, args ...any) {
		h.Log.Debugw(fmt.Sprintf(v, args...), "traceid", web.GetTraceID(ctx))
	}

	balances, err := database.CheckChain(chain, ev)
	if err != nil {
		return errs.NewLedger(err)
	}

	resp := checked{
		Blocks:   len(chain),
		Balances: balances,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// =============================================================================

// blockNumber parses a block number path parameter.
func blockNumber(s string) (uint64, error) {
	if s == "latest" || s == "" {
		return state.QueryLatest, nil
	}

	num, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid block number %q", s)
	}

	return num, nil
}
