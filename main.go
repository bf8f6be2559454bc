package main

import "github.com/kamusis/esearch/cmd"

func main() {
	cmd.Execute()
}
