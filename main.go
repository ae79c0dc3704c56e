package main

import (
	"github/prizevault/go-vault-agent/cmd"
)

func main() {
	cmd.Execute()
}
