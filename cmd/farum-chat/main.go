package main

import (
	"os"

	. "github.com/stevegt/goadapt"

	"github.com/PabloGalante/farum-chat/internal/cli"
)

func main() {
	rc, err := cli.Run(os.Args[1:], cli.NewConfig())
	Ck(err)
	os.Exit(rc)
}
