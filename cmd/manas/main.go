package main

import "github.com/sandeepkv93/manas/cmd/manas/commands"

func main() {
	commands.Execute()
}
