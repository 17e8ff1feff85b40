package worker

import (
	"errors"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/state"
)

// assemblyOperations handles block assembly.
func (w *Worker) assemblyOperations() {
	w.evHandler("worker: assemblyOperations: G started")
	defer w.evHandler("worker: assemblyOperations: G completed")

	var tick <-chan time.Time
	if w.ticker != nil {
		tick = w.ticker.C
	}

	for {
		select {
		case <-w.startAssembly:
			if !w.isShutdown() {
				w.runAssemblyOperation()
			}
		case <-tick:
			if !w.isShutdown() {
				w.runAssemblyOperation()
			}
		case <-w.shut:
			w.evHandler("worker: assemblyOperations: received shut signal")
			return
		}
	}
}

// runAssemblyOperation takes the next batch from the mempool and writes a new
// block to storage.
func (w *Worker) runAssemblyOperation() {
	w.evHandler("worker: runAssemblyOperation: ASSEMBLY: started")
	defer w.evHandler("worker: runAssemblyOperation: ASSEMBLY: completed")

	// Make sure there are transactions in the mempool.
	length := w.state.QueryMempoolLength()
	if length == 0 {
		w.evHandler("worker: runAssemblyOperation: ASSEMBLY: no transactions to assemble: Txs[%d]", length)
		return
	}

	// After running an assembly operation, check if a new operation should
	// be signaled again.
	defer func() {
		length := w.state.QueryMempoolLength()
		if length >= int(w.state.RetrieveGenesis().TransPerBlock) {
			w.evHandler("worker: runAssemblyOperation: ASSEMBLY: signal new assembly operation: Txs[%d]", length)
			w.SignalAssemble()
		}
	}()

	t := time.Now()
	report, err := w.state.AssembleBlock()
	duration := time.Since(t)

	w.evHandler("worker: runAssemblyOperation: ASSEMBLY: assembly duration[%v]", duration)

	if err != nil {
		switch {
		case errors.Is(err, state.ErrNoTransactions):
			w.evHandler("worker: runAssemblyOperation: ASSEMBLY: WARNING: no transactions in mempool")
		case errors.Is(err, state.ErrNoValidTransactions):
			w.evHandler("worker: runAssemblyOperation: ASSEMBLY: WARNING: discarded %d transactions, no block written", len(report.Discarded))
		default:
			w.evHandler("worker: runAssemblyOperation: ASSEMBLY: ERROR: %s", err)
		}
		return
	}

	w.evHandler("worker: runAssemblyOperation: ASSEMBLY: blk[%d]: accepted[%d]: discarded[%d]", report.Block.Number(), len(report.Accepted), len(report.Discarded))
}
