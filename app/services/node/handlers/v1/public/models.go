package public

import (
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/google/uuid"
)

type account struct {
	Account database.AccountID `json:"account"`
	Balance int64              `json:"balance"`
}

type actInfo struct {
	LatestBlock string    `json:"latest_block"`
	BlockNumber uint64    `json:"block_number"`
	Uncommitted int       `json:"uncommitted"`
	Accounts    []account `json:"accounts"`
}

type submitTx struct {
	Tx database.Tx `json:"tx" validate:"required"`
}

type submitted struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

type candidate struct {
	ID       uuid.UUID   `json:"id"`
	Tx       database.Tx `json:"tx"`
	Received time.Time   `json:"received"`
}

type checked struct {
	Blocks   int               `json:"blocks"`
	Balances database.Balances `json:"balances"`
}
