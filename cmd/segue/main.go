package main

import "github.com/tessro/segue/internal/cli"

func main() {
	cli.Execute()
}
