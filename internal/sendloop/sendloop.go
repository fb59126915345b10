// Package sendloop drives a batch of outbound messages through the message
// channel, one contact at a time. The channel wraps a single browser session,
// so there is never more than one send in flight; resumability comes from
// checkpointing after each successful send.
package sendloop

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/gobarajas/outreach-cli/internal/history"
	"github.com/gobarajas/outreach-cli/internal/model"
	"github.com/gobarajas/outreach-cli/internal/phone"
	"github.com/gobarajas/outreach-cli/internal/progress"
	"github.com/gobarajas/outreach-cli/internal/render"
	"github.com/gobarajas/outreach-cli/pkg/wabridge"
)

// fatalPatterns are failure substrings that mean the channel session itself
// is gone; retrying the next contact will fail the same way.
var fatalPatterns = []string{
	"chrome not reachable",
	"session deleted",
	"session not ready",
}

func isFatal(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, p := range fatalPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// Options configures a Loop.
type Options struct {
	// DelayMin and DelayMax bound the randomized pause between contacts,
	// in seconds, both inclusive.
	DelayMin int
	DelayMax int
	// Rand drives the delay. Tests inject a seeded source; nil gets a
	// time-seeded one.
	Rand *rand.Rand
	// ContinueOnFatal decides whether to keep going after a fatal channel
	// error. Nil means stop.
	ContinueOnFatal func(err error) bool
	// History receives the batch audit trail. Nil disables auditing.
	History history.Store
	// SourceFile and Template label the batch in history.
	SourceFile string
	Template   string
	// DryRun renders and logs without touching the channel or checkpoint.
	DryRun bool
}

// Result summarizes a finished (or interrupted) run.
type Result struct {
	Sent      int
	Errors    int
	LastIndex int
	Status    model.BatchStatus
}

// Completed reports whether the batch processed every contact.
func (r *Result) Completed() bool {
	return r.Status == model.BatchStatusCompleted
}

// Loop is the resumable send state machine.
type Loop struct {
	channel  wabridge.Channel
	renderer *render.Renderer
	progress *progress.Store
	opts     Options
}

func New(channel wabridge.Channel, renderer *render.Renderer, store *progress.Store, opts Options) *Loop {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.DelayMax < opts.DelayMin {
		opts.DelayMax = opts.DelayMin
	}
	return &Loop{channel: channel, renderer: renderer, progress: store, opts: opts}
}

// Run sends tmpl to every contact from start onward. The checkpoint is
// written after each successful send and removed when the batch completes;
// cancelling ctx pauses at the next contact boundary and leaves the
// checkpoint in place.
func (l *Loop) Run(ctx context.Context, contacts []model.Contact, tmpl string, start int) (*Result, error) {
	res := &Result{LastIndex: start - 1, Status: model.BatchStatusRunning}

	if !l.opts.DryRun {
		state, err := l.channel.Connect(ctx)
		if err != nil {
			res.Status = model.BatchStatusFailed
			return res, eris.Wrap(err, "sendloop: connect channel")
		}
		if state != wabridge.StateReady {
			res.Status = model.BatchStatusFailed
			return res, eris.Errorf("sendloop: channel not ready (state %s)", state)
		}
	}

	batch := l.beginAudit(ctx, len(contacts))

	for i := start; i < len(contacts); i++ {
		if ctx.Err() != nil {
			res.Status = model.BatchStatusPaused
			break
		}

		c := contacts[i]
		sent, err := l.sendOne(ctx, c, tmpl)
		if sent {
			res.Sent++
			res.LastIndex = i
			if !l.opts.DryRun {
				if err := l.progress.Save(i + 1); err != nil {
					zap.L().Warn("sendloop: save checkpoint", zap.Error(err))
				}
			}
		} else {
			res.Errors++
			zap.L().Error("sendloop: send failed",
				zap.Int("index", i),
				zap.String("name", c.Name),
				zap.Error(err))
		}

		l.recordAudit(ctx, batch, i, c, sent, err)

		if err != nil && isFatal(err) {
			if l.opts.ContinueOnFatal == nil || !l.opts.ContinueOnFatal(err) {
				res.Status = model.BatchStatusFailed
				break
			}
		}

		if i < len(contacts)-1 {
			if !l.pause(ctx) {
				res.Status = model.BatchStatusPaused
				break
			}
		}
	}

	if res.Status == model.BatchStatusRunning {
		res.Status = model.BatchStatusCompleted
		if !l.opts.DryRun {
			if err := l.progress.Clear(); err != nil {
				zap.L().Warn("sendloop: clear checkpoint", zap.Error(err))
			}
		}
	}

	l.finishAudit(ctx, batch, res)

	zap.L().Info("sendloop: batch finished",
		zap.Int("sent", res.Sent),
		zap.Int("errors", res.Errors),
		zap.String("status", string(res.Status)))
	return res, nil
}

func (l *Loop) sendOne(ctx context.Context, c model.Contact, tmpl string) (bool, error) {
	msg := l.renderer.Render(tmpl, c)

	if l.opts.DryRun {
		zap.L().Info("sendloop: dry run",
			zap.String("name", c.Name),
			zap.String("phone", phone.FormatForChannel(c.Phone)),
			zap.Int("message_len", len(msg)))
		return true, nil
	}

	formatted := phone.FormatForChannel(c.Phone)
	if err := l.channel.OpenConversation(ctx, formatted); err != nil {
		return false, err
	}

	sent, err := l.channel.SendText(ctx, msg)
	if err != nil {
		return false, err
	}
	if !sent {
		return false, eris.Errorf("sendloop: channel reported message not sent for %s", formatted)
	}
	return true, nil
}

// pause sleeps the randomized inter-contact delay. Returns false if ctx was
// cancelled during the wait.
func (l *Loop) pause(ctx context.Context) bool {
	delay := l.opts.DelayMin
	if spread := l.opts.DelayMax - l.opts.DelayMin; spread > 0 {
		delay += l.opts.Rand.Intn(spread + 1)
	}
	if delay <= 0 {
		return ctx.Err() == nil
	}

	select {
	case <-ctx.Done():
		return false
	case <-time.After(time.Duration(delay) * time.Second):
		return true
	}
}

// Audit helpers. History failures never interrupt the batch.

func (l *Loop) beginAudit(ctx context.Context, total int) *model.Batch {
	if l.opts.History == nil {
		return nil
	}
	batch, err := l.opts.History.CreateBatch(ctx, l.opts.SourceFile, l.opts.Template, total)
	if err != nil {
		zap.L().Warn("sendloop: create history batch", zap.Error(err))
		return nil
	}
	return batch
}

func (l *Loop) recordAudit(ctx context.Context, batch *model.Batch, idx int, c model.Contact, sent bool, sendErr error) {
	if batch == nil {
		return
	}
	outcome := model.Outcome{
		Index: idx,
		Phone: c.Phone,
		Name:  c.Name,
		Sent:  sent,
	}
	if sendErr != nil {
		outcome.Error = sendErr.Error()
	}
	if err := l.opts.History.RecordOutcome(ctx, batch.ID, outcome); err != nil {
		zap.L().Warn("sendloop: record outcome", zap.Error(err))
	}
}

func (l *Loop) finishAudit(ctx context.Context, batch *model.Batch, res *Result) {
	if batch == nil {
		return
	}
	if err := l.opts.History.CompleteBatch(ctx, batch.ID, res.Sent, res.Errors, res.Status); err != nil {
		zap.L().Warn("sendloop: complete history batch", zap.Error(err))
	}
}
