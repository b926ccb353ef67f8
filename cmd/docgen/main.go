package main

import "github.com/mvp-joe/docgen/internal/cli"

func main() {
	cli.Execute()
}
