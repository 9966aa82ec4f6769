package main

import "ghbrowse/internal/cmd"

func main() {
	cmd.Execute()
}
