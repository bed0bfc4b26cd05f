package main

import "github.com/nhle/foundry/cmd"

func main() {
	cmd.Execute()
}
