// Command sprintpulse is a terminal front end for the 12-week year state
// engine: it renders the dashboard, edits goals and tactics, and confirms
// destructive actions on stdin.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, styleBad.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
