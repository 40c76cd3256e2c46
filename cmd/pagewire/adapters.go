package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/pagewire/pkg/adapter"
)

func adaptersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "adapters",
		Short: "List the adapters linked into this binary",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range adapter.Names() {
				printf(cmd, "%s\n", name)
			}
		},
	}
}
