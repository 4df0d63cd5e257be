package main

import "taskman/cmd/taskman/commands"

func main() {
	commands.Execute()
}
