package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/gobarajas/outreach-cli/internal/model"
	"github.com/gobarajas/outreach-cli/internal/render"
	"github.com/gobarajas/outreach-cli/internal/template"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List, show, and preview message templates",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadTemplates()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, name := range store.Names() {
			marker := "  "
			if name == store.DefaultName() {
				marker = "* "
			}
			fmt.Fprintf(out, "%s%s\n", marker, name)
		}
		fmt.Fprintln(out, "\nVariables:")
		for _, v := range template.Variables() {
			fmt.Fprintf(out, "  %s  %s\n", v.Name, v.Description)
		}
		return nil
	},
}

var templatesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print the raw body of a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadTemplates()
		if err != nil {
			return err
		}
		body, ok := store.Get(args[0])
		if !ok {
			return eris.Errorf("templates: unknown template %q", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), body)
		return nil
	},
}

var templatesPreviewCmd = &cobra.Command{
	Use:   "preview <name>",
	Short: "Render a template with sample contact data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadTemplates()
		if err != nil {
			return err
		}
		body, ok := store.Get(args[0])
		if !ok {
			return eris.Errorf("templates: unknown template %q", args[0])
		}
		sample := model.Contact{
			Name:      "Juan Pérez",
			Phone:     "600123456",
			Plate:     "1234ABC",
			EntryTime: "14:30",
			Occupants: "3",
		}
		fmt.Fprintln(cmd.OutOrStdout(), render.New().Render(body, sample))
		return nil
	},
}

func init() {
	templatesCmd.AddCommand(templatesListCmd, templatesShowCmd, templatesPreviewCmd)
	rootCmd.AddCommand(templatesCmd)
}
