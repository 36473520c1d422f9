package main

import (
	"github.com/snakearena/arena/cmd/arena/commands"
)

func main() {
	commands.Execute()
}
