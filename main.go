// Command entangled tangles Markdown literate programs into source files
// and stitches edited source files back into their Markdown origin.
package main

import "github.com/entangled-go/entangled/cmd"

func main() {
	cmd.Execute()
}
