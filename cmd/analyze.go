package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gobarajas/outreach-cli/internal/pipeline"
)

var (
	analyzeTemplate    string
	analyzeFTPUser     string
	analyzeFTPPassword string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file.xlsx | ftp://host/path.xlsx>",
	Short: "Extract and consolidate contacts from a reservation export without sending",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		templates, err := loadTemplates()
		if err != nil {
			return err
		}
		tmplName, _ := resolveTemplate(templates, analyzeTemplate)

		path, err := resolveSource(ctx, args[0], analyzeFTPUser, analyzeFTPPassword)
		if err != nil {
			return err
		}

		res, err := pipeline.Run(ctx, path, pipelineOptions(tmplName))
		if err != nil {
			return eris.Wrap(err, "analyze export")
		}

		zap.L().Info("analysis complete",
			zap.String("template", tmplName),
			zap.Int("rows", res.Stats.RowsRead),
			zap.Int("contacts", len(res.Contacts)),
			zap.Int("skipped", res.Stats.Skipped),
			zap.Int("merged", res.Stats.Merged),
			zap.Int("reservations", res.Stats.TotalReservations))

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeTemplate, "template", "", "template name (default from config)")
	analyzeCmd.Flags().StringVar(&analyzeFTPUser, "ftp-user", "anonymous", "FTP user for ftp:// sources")
	analyzeCmd.Flags().StringVar(&analyzeFTPPassword, "ftp-password", "anonymous", "FTP password for ftp:// sources")
	rootCmd.AddCommand(analyzeCmd)
}
