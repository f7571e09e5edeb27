// Package main is the entry point for the vutil CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/NotToDisturb/VersionUtils/internal/cmd"
	oerrors "github.com/NotToDisturb/VersionUtils/internal/errors"
)

func main() {
	rootCmd := cmd.NewRootCmd()

	if err := rootCmd.Execute(); err != nil {
		var exitErr *oerrors.ExitError
		if errors.As(err, &exitErr) {
			// Only print if the command layer hasn't already printed it
			if !exitErr.Printed {
				fmt.Fprintln(os.Stderr, err)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(oerrors.ExitCodeFromError(err))
	}
}
