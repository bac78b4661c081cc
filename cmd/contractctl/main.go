package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "contractctl",
		Short:         "Operator tooling for contract links",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("config", "", "Config file (default $CONFIG_PATH or ./config.yaml)")

	rootCmd.AddCommand(hashPasswordCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(createCmd())
	rootCmd.AddCommand(listCmd())

	return rootCmd
}
