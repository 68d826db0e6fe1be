// Command bowdoc edits YAML and JSON documents by path.
package main

import "github.com/mesh-intelligence/bow/internal/cli"

func main() {
	cli.Execute()
}
