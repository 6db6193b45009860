package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"surveyflow/internal/catalog"
	"surveyflow/internal/model"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a YAML catalog for structural problems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := catalog.LoadFile(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: ok\n", args[0])
			for _, t := range idx.Themes() {
				base := idx.BaseQuestions(t.ID)
				fmt.Fprintf(out, "  %-20s %d questions (%d conditional)\n", t.ID, len(base), countConditional(base))
			}
			return nil
		},
	}
}

func countConditional(qs []model.Question) int {
	n := 0
	for i := range qs {
		n += len(qs[i].ConditionalQuestions) + countConditional(qs[i].ConditionalQuestions)
	}
	return n
}
