package main

import "github.com/spf13/cobra"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "risk-data",
		Short: "Bulk risk import tools",
	}
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newTemplateCmd())
	return cmd
}

func execute() {
	_ = newRootCmd().Execute()
}
