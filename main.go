package main

import "github.com/skerns321/bitchat-mcp/cmd"

func main() {
	cmd.Execute()
}
