package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"surveyflow/internal/catalog"
	"surveyflow/internal/engine"
	"surveyflow/internal/model"
)

type previewOptions struct {
	theme   string
	answers []string
	json    bool
}

type previewResult struct {
	ThemeID    string            `json:"themeId"`
	Questions  []string          `json:"questions"`
	Answers    map[string]string `json:"answers"`
	Complete   bool              `json:"complete"`
	Unanswered []string          `json:"unanswered,omitempty"`
}

func newPreviewCmd() *cobra.Command {
	opts := &previewOptions{}

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Show which questions a theme displays for a set of answers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := catalog.LoadFile(args[0])
			if err != nil {
				return err
			}
			res, err := runPreview(idx, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}

			fmt.Fprintf(out, "Theme %s\n", res.ThemeID)
			for _, id := range res.Questions {
				q, _ := idx.Question(id)
				mark := " "
				if a, ok := res.Answers[id]; ok {
					mark = "x"
					fmt.Fprintf(out, "  [%s] %s: %s -> %q\n", mark, id, q.Text, a)
					continue
				}
				fmt.Fprintf(out, "  [%s] %s: %s\n", mark, id, q.Text)
			}
			if res.Complete {
				fmt.Fprintln(out, "complete")
			} else {
				fmt.Fprintf(out, "incomplete: %s\n", strings.Join(res.Unanswered, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.theme, "theme", "", "theme to preview (default: first theme)")
	cmd.Flags().StringArrayVar(&opts.answers, "answer", nil, "answer as questionId=value, repeatable")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print JSON")
	return cmd
}

func runPreview(idx *catalog.Index, opts *previewOptions) (*previewResult, error) {
	themeID := opts.theme
	if themeID == "" {
		themeID = idx.FirstTheme()
	}
	if _, ok := idx.Theme(themeID); !ok {
		return nil, fmt.Errorf("unknown theme %q", themeID)
	}

	store := engine.NewAnswerStore()
	for _, raw := range opts.answers {
		id, value, ok := strings.Cut(raw, "=")
		if !ok || id == "" {
			return nil, fmt.Errorf("answer %q must look like questionId=value", raw)
		}
		if _, known := idx.Question(id); !known {
			return nil, fmt.Errorf("unknown question %q", id)
		}
		store.Upsert(id, value)
	}

	visible := engine.Resolve(themeID, idx, store)
	res := &previewResult{
		ThemeID:    themeID,
		Questions:  questionIDs(visible),
		Answers:    make(map[string]string),
		Complete:   engine.IsComplete(visible, store),
		Unanswered: engine.Unanswered(visible, store),
	}
	for _, q := range visible {
		if a, ok := store.Get(q.ID); ok {
			res.Answers[q.ID] = a
		}
	}
	return res, nil
}

func questionIDs(qs []model.Question) []string {
	ids := make([]string, len(qs))
	for i := range qs {
		ids[i] = qs[i].ID
	}
	return ids
}
