package main

import "content-planner/cmd"

func main() {
	cmd.Execute()
}
