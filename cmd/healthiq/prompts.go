package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sant0-9/healthiq/internal/prompts"
)

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "List the prompt templates the template setting can name",
	RunE:  runPrompts,
}

func runPrompts(cmd *cobra.Command, args []string) error {
	e, err := setup("")
	if err != nil {
		return err
	}
	defer e.Close()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDESCRIPTION\tSOURCE")
	for _, m := range prompts.Catalog() {
		source := "built-in"
		if m.Path != "" {
			source = m.Path
		}
		active := ""
		if m.Name == e.cfg.Template {
			active = " *"
		}
		fmt.Fprintf(w, "%s%s\t%s\t%s\n", m.Name, active, m.Description, source)
	}
	return w.Flush()
}
