package main

import "github.com/yatube-go/yatube/commands"

func main() {
	commands.Execute()
}
