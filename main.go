package main

import "github.com/thingc24/carve/cmd"

func main() {
	cmd.Execute()
}
