package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loamhq/userdir/internal/cli"
)

var version = "1.0.0"

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "userdird",
	Short: "User Directory Server",
	Long: `userdird serves a small user directory over HTTP. Requests are
authenticated with HTTP Basic Auth against the directory itself, and a
REST API provides full CRUD operations for user records.`,
	Version: version,
}

func init() {
	rootCmd.AddCommand(cli.ServerCmd)

	rootCmd.SetVersionTemplate(`{{.Version}}
`)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
