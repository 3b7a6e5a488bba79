package main

import (
	"github.com/nachoupps/chessy/internal/cli"
)

func main() {
	cli.Execute()
}
