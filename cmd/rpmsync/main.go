package main

import (
	"github.com/oneconcern/rpmsync/cmd/rpmsync/cmd"
)

func main() {
	cmd.Execute()
}
