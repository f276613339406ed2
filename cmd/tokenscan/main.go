package main

import "solana-token-scan/internal/cli"

func main() {
	cli.Execute()
}
