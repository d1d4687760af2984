package main

import "github.com/devbush/kortsubs/internal/adapters/cli"

func main() {
	cli.Execute()
}
