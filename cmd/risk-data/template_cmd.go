package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/riskdesk/riskdesk/modules/risks/domain/entities/riskimport"
	"github.com/riskdesk/riskdesk/modules/risks/services"
)

func newTemplateCmd() *cobra.Command {
	var (
		riskType string
		format   string
		out      string
	)

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write an import template file",
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpl, err := services.NewTemplateService().Render(riskimport.ParseRiskType(riskType), format)
			if err != nil {
				return err
			}
			if out == "" {
				out = tmpl.Filename
			}
			if err := os.WriteFile(out, tmpl.Data, 0o644); err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}

	cmd.Flags().StringVar(&riskType, "type", "project", "Risk type (project|vendor)")
	cmd.Flags().StringVar(&format, "format", "csv", "Template format (csv|xlsx)")
	cmd.Flags().StringVar(&out, "out", "", "Output path (defaults to the template filename)")
	return cmd
}
