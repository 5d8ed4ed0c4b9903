// Command ziplockctl is a reference client demonstrating the
// repository core's public surface end to end: create/open a
// repository, add/get/list/search credentials, save, and close.
package main

import (
	"os"

	"github.com/ejangi/ziplock-sub002/cmd/ziplockctl"
)

func main() {
	if err := ziplockctl.Execute(); err != nil {
		os.Exit(1)
	}
}
