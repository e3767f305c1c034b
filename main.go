package main

import "github.com/onceagainarise/repo-surfer/cmd"

func main() {
	cmd.Execute()
}
