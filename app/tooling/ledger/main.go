// This program builds, inspects and verifies ledger chains and submits
// transactions to a running node.
package main

import "github.com/ardanlabs/ledger/app/tooling/ledger/cmd"

func main() {
	cmd.Execute()
}
