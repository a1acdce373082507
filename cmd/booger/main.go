package main

import (
	"fmt"
	"os"

	"github.com/dshills/booger/internal/cli"
)

var version = "dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("booger %s\n", version)
		return
	}
	os.Exit(cli.Execute())
}
