package main

import (
	"github.com/DrSkyle/dtigraph/cmd/dtigraph/commands"
)

func main() {
	commands.Execute()
}
