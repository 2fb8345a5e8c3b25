package main

import (
	"os"

	"github.com/Fuabioo/zipdir/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
