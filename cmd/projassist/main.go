// Command projassist runs the project status assistant chat and gateway.
package main

import "github.com/diogo/projassist/internal/commands"

func main() {
	commands.Execute()
}
