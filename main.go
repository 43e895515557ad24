package main

import "github.com/josephlewis42/mercury/cmd"

func main() {
	cmd.Execute()
}
