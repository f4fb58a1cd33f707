package main

import "github.com/anon-br/ergo-ledger-go/cmd/ergocli/cmd"

func main() {
	cmd.Execute()
}
