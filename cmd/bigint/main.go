package main

import "github.com/govalues/bigint/internal/cli"

func main() {
	cli.Execute()
}
