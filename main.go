package main

import (
	"github.com/notargets/golbm/cmd"
)

func main() {
	cmd.Execute()
}
