package main

import "SFRC/internal/cli"

func main() {
	cli.Execute()
}
