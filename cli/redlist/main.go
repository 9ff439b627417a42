package main

import (
	"os"

	redlistcmder "github.com/pressroom-tools/redlist/cmd/redlist"
)

func main() {
	cmd := redlistcmder.NewRedlistCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
