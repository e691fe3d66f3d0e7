// DrivePort - client for drive-style cloud file storage.
package main

import (
	"fmt"
	"os"

	"github.com/driveport/driveport/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
