package main

import "github.com/histkit/replan/cmd"

func main() {
	cmd.Execute()
}
