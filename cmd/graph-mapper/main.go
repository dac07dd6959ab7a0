// Package main provides the CLI entrypoint for graph-mapper.
//
// graph-mapper works with the metadata of object-graph mapped Go types:
//   - lint checks ogm struct tags statically (AST + go/types)
//   - inspect prints the metadata built for the bundled example model
//   - resolve shows which accessor serves a property or relationship
//   - overlay validates YAML annotation overlays
package main

import "graph-mapper/internal/cli"

func main() {
	cli.Execute()
}
