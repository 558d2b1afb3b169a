package main

import (
	"github.com/notargets/gobonemat/cmd"
)

func main() {
	cmd.Execute()
}
