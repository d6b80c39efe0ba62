// cmd/main.go
package main

import cmd "github.com/mwiater/benchtree/cmd/benchtree"

// main starts the benchtree CLI by delegating to the cobra root command.
func main() {
	cmd.Execute()
}
