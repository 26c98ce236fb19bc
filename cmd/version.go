package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Prints the version.",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(version)
		},
	})
}
