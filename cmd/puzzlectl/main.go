package main

import "github.com/robalobadob/connections/cmd/puzzlectl/cmd"

func main() {
	cmd.Execute()
}
