package main

import "github.com/notargets/goform/cmd"

func main() {
	cmd.Execute()
}
