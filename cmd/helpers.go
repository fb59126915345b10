package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/gobarajas/outreach-cli/internal/fetcher"
	"github.com/gobarajas/outreach-cli/internal/history"
	"github.com/gobarajas/outreach-cli/internal/pipeline"
	"github.com/gobarajas/outreach-cli/internal/template"
)

// pipelineOptions builds pipeline options from config with the template name
// resolved against the store.
func pipelineOptions(templateName string) pipeline.Options {
	return pipeline.Options{
		TemplateName:     templateName,
		AllowForeign:     cfg.Phone.AllowForeign,
		Consolidate:      cfg.Send.Consolidate,
		ExcludedLotTypes: cfg.Send.ExcludedLotTypes,
	}
}

// loadTemplates loads the template store from the configured file and applies
// the configured default name.
func loadTemplates() (*template.Store, error) {
	store, err := template.Load(cfg.Template.File)
	if err != nil {
		return nil, err
	}
	if cfg.Template.Default != "" {
		if _, ok := store.Get(cfg.Template.Default); !ok {
			return nil, eris.Errorf("configured default template %q not defined", cfg.Template.Default)
		}
	}
	return store, nil
}

// resolveTemplate picks the template to use: the --template flag if set,
// otherwise the configured default.
func resolveTemplate(store *template.Store, flagName string) (string, string) {
	name := flagName
	if name == "" {
		name = cfg.Template.Default
	}
	return store.Lookup(name)
}

// resolveSource returns a local path for the export, downloading it first
// when the source is an FTP URL.
func resolveSource(ctx context.Context, source, ftpUser, ftpPassword string) (string, error) {
	if !strings.HasPrefix(source, "ftp://") {
		return source, nil
	}

	f := fetcher.NewFTPFetcher(fetcher.FTPOptions{
		Timeout:  30 * time.Second,
		User:     ftpUser,
		Password: ftpPassword,
	})
	local, err := f.DownloadExport(ctx, source, os.TempDir())
	if err != nil {
		return "", eris.Wrap(err, "download export")
	}
	zap.L().Info("export downloaded", zap.String("url", source), zap.String("path", local))
	return local, nil
}

// openHistory opens the configured audit store, or returns nil when history
// is disabled.
func openHistory(ctx context.Context) (history.Store, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	st, err := history.Open(ctx, cfg.History.Driver, cfg.History.DSN)
	if err != nil {
		return nil, eris.Wrap(err, "open history store")
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate history store")
	}
	return st, nil
}

// askYesNo prompts on out and reads a y/n answer from in. Empty input means
// no. An unanswerable prompt (closed stdin) is an error, so callers whose
// "no" branch is destructive can bail out instead of guessing.
func askYesNo(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return false, eris.Wrap(err, "read answer")
		}
		return false, eris.New("no answer, input closed")
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes" || answer == "s" || answer == "si" || answer == "sí", nil
}
