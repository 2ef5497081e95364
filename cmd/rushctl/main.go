package main

import "github.com/mcoot/rushmax/internal/cli"

func main() {
	cli.Execute()
}
