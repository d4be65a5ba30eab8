package main

import "github.com/draftkit/draftkit/internal/cli"

func main() {
	cli.Execute()
}
