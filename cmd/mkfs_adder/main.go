package main

import (
	"os"

	"github.com/PapiCZ/minivsfs/commands"
)

func main() {
	os.Exit(commands.Execute(commands.NewAddCommand(), os.Args[1:]))
}
