// Command dotstated assembles ferry dot-state snapshots, either as a
// one-shot "snapshot" lookup or a continuously polling "serve" loop.
package main

import "github.com/abw750/ferryAPI3/internal/adapters/cli"

func main() {
	cli.Execute()
}
