package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gobarajas/outreach-cli/internal/pipeline"
	"github.com/gobarajas/outreach-cli/internal/progress"
	"github.com/gobarajas/outreach-cli/internal/render"
	"github.com/gobarajas/outreach-cli/internal/sendloop"
	"github.com/gobarajas/outreach-cli/pkg/wabridge"
)

var (
	sendTemplate    string
	sendResume      bool
	sendRestart     bool
	sendYes         bool
	sendDryRun      bool
	sendFTPUser     string
	sendFTPPassword string
)

var sendCmd = &cobra.Command{
	Use:   "send <file.xlsx | ftp://host/path.xlsx>",
	Short: "Send templated reminders to every contact in a reservation export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if sendResume && sendRestart {
			return eris.New("--resume and --restart are mutually exclusive")
		}

		templates, err := loadTemplates()
		if err != nil {
			return err
		}
		tmplName, tmplBody := resolveTemplate(templates, sendTemplate)

		path, err := resolveSource(ctx, args[0], sendFTPUser, sendFTPPassword)
		if err != nil {
			return err
		}

		res, err := pipeline.Run(ctx, path, pipelineOptions(tmplName))
		if err != nil {
			return eris.Wrap(err, "analyze export")
		}
		if len(res.Contacts) == 0 {
			return eris.New("no sendable contacts in export")
		}

		store := progress.NewStore(cfg.Progress.File)
		start, err := resolveStart(os.Stdin, os.Stdout, store, len(res.Contacts))
		if err != nil {
			return err
		}

		remaining := len(res.Contacts) - start
		if !sendYes && !sendDryRun {
			prompt := fmt.Sprintf("Send %d messages with template %s?", remaining, tmplName)
			ok, err := askYesNo(os.Stdin, os.Stdout, prompt)
			if err != nil || !ok {
				fmt.Println("Aborted.")
				return nil
			}
		}

		hist, err := openHistory(ctx)
		if err != nil {
			return err
		}
		if hist != nil {
			defer hist.Close()
		}

		channel := wabridge.NewClient(cfg.Bridge.BaseURL,
			wabridge.WithConnectTimeout(cfg.Bridge.ConnectTimeout()),
			wabridge.WithHTTPClient(&http.Client{Timeout: cfg.Bridge.RequestTimeout()}),
		)

		continueOnFatal := func(err error) bool {
			if sendYes {
				return false
			}
			prompt := fmt.Sprintf("Fatal channel error: %v. Continue with the next contact?", err)
			ok, askErr := askYesNo(os.Stdin, os.Stdout, prompt)
			return askErr == nil && ok
		}

		loop := sendloop.New(channel, render.New(), store, sendloop.Options{
			DelayMin:        cfg.Send.DelayMinSecs,
			DelayMax:        cfg.Send.DelayMaxSecs,
			ContinueOnFatal: continueOnFatal,
			History:         hist,
			SourceFile:      args[0],
			Template:        tmplName,
			DryRun:          sendDryRun,
		})

		result, err := loop.Run(ctx, res.Contacts, tmplBody, start)
		if err != nil {
			return eris.Wrap(err, "send batch")
		}

		zap.L().Info("send finished",
			zap.Int("sent", result.Sent),
			zap.Int("errors", result.Errors),
			zap.String("status", string(result.Status)))

		fmt.Printf("Done: %d sent, %d errors (%s)\n", result.Sent, result.Errors, result.Status)
		return nil
	},
}

// resolveStart decides the first contact index, honoring a saved checkpoint.
// A checkpoint at or past the end belongs to an already finished batch and is
// discarded. Restarting re-sends contacts, so an unanswered prompt never
// defaults to it; without an explicit answer or flag the run aborts with the
// checkpoint intact.
func resolveStart(in io.Reader, out io.Writer, store *progress.Store, total int) (int, error) {
	cp := store.Load()
	if cp.Index <= 0 || sendRestart {
		if err := store.Clear(); err != nil {
			return 0, err
		}
		return 0, nil
	}
	if cp.Index >= total {
		zap.L().Info("checkpoint covers the whole batch, starting fresh", zap.Int("index", cp.Index))
		if err := store.Clear(); err != nil {
			return 0, err
		}
		return 0, nil
	}

	if sendResume {
		return cp.Index, nil
	}

	prompt := fmt.Sprintf("A previous batch already sent %d of %d contacts. Resume from there?", cp.Index, total)
	resume, err := askYesNo(in, out, prompt)
	if err != nil {
		return 0, eris.Wrap(err, "checkpoint found, rerun with --resume or --restart")
	}
	if resume {
		return cp.Index, nil
	}
	if err := store.Clear(); err != nil {
		return 0, err
	}
	return 0, nil
}

func init() {
	sendCmd.Flags().StringVar(&sendTemplate, "template", "", "template name (default from config)")
	sendCmd.Flags().BoolVar(&sendResume, "resume", false, "resume from the saved checkpoint without asking")
	sendCmd.Flags().BoolVar(&sendRestart, "restart", false, "discard the saved checkpoint and start over")
	sendCmd.Flags().BoolVar(&sendYes, "yes", false, "skip confirmation prompts")
	sendCmd.Flags().BoolVar(&sendDryRun, "dry-run", false, "render messages without sending")
	sendCmd.Flags().StringVar(&sendFTPUser, "ftp-user", "anonymous", "FTP user for ftp:// sources")
	sendCmd.Flags().StringVar(&sendFTPPassword, "ftp-password", "anonymous", "FTP password for ftp:// sources")
	rootCmd.AddCommand(sendCmd)
}
