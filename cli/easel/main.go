package main

import (
	"os"

	easelcmder "github.com/inkwellco/easel/cmd/easel"
)

func main() {
	cmd := easelcmder.NewEaselCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
