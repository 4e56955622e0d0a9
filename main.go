package main

import "github.com/aninkinaa/mentalwell1.0-api/cmd"

func main() {
	cmd.Execute()
}
