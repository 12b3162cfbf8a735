package main

import "github.com/imrishuroy/go-storefront/cmd/shopctl/commands"

func main() {
	commands.Execute()
}
