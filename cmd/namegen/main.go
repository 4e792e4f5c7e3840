// Command namegen generates usernames from the terminal using the same
// pipeline as the API.
package main

import (
	"errors"
	"fmt"
	"os"

	"namegen-api/internal/pipeline"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var perr *pipeline.Error
		if !errors.As(err, &perr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "namegen",
		Short:         "Generate usernames from a theme",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Bool("debug", false, "Debug logging")
	root.AddCommand(newGenerateCmd())
	return root
}
