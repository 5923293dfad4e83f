package main

import "sheet-diff/cmd"

func main() {
	cmd.Execute()
}
