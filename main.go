package main

import "github.com/sorenpeters/nota/cmd"

func main() {
	cmd.Execute()
}
