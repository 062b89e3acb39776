package main

import "github.com/ichaly/introspect/cmd"

func main() {
	cmd.Execute()
}
