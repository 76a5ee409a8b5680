package main

import "localize-gen/internal/cli"

func main() {
	cli.Execute()
}
