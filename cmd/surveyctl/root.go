package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "surveyctl",
		Short: "Catalog authoring tools for surveyflow",
		Long: `surveyctl checks survey catalogs before they are uploaded or served.

  surveyctl validate catalog.yaml
  surveyctl preview catalog.yaml --theme personal --answer q1=Yes`,
		SilenceUsage: true,
	}

	root.AddCommand(newValidateCmd())
	root.AddCommand(newPreviewCmd())
	return root
}
