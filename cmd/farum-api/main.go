package main

import (
	"os"

	. "github.com/stevegt/goadapt"

	"github.com/PabloGalante/farum-chat/internal/cli"
)

// farum-api is the HTTP-only build: same flags and environment as
// farum-chat serve.
func main() {
	config := cli.NewConfig()
	config.Name = "farum-api"

	rc, err := cli.Run(append([]string{"serve"}, os.Args[1:]...), config)
	Ck(err)
	os.Exit(rc)
}
