package main

import "edfmark/cmd/edfmark/cmd"

func main() {
	cmd.Execute()
}
