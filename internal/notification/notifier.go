package notification

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// Notifier renders a message for a submission and hands it to the transport exactly once.
type Notifier struct {
	transport Transport
	renderer  *Renderer
	logger    *slog.Logger
}

func NewNotifier(transport Transport, renderer *Renderer, logger *slog.Logger) *Notifier {
	if renderer == nil {
		renderer = NewDefaultRenderer()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		transport: transport,
		renderer:  renderer,
		logger:    logger,
	}
}

// Notify sends one message to every recipient. Failures are returned in the Result, never panicked.
// Notify(ctx, f, "a@x") and Notify(ctx, f, []string{"a@x"}...) are the same call.
func (n *Notifier) Notify(ctx context.Context, f Fields, recipients ...string) Result {
	to := cleanRecipients(recipients)

	if n.transport == nil {
		n.logger.Warn("mail transport missing, notification skipped", "department", f.Department)
		return failed(to, ErrNotConfigured)
	}
	if err := n.transport.Ready(); err != nil {
		n.logger.Warn("mail transport not configured, notification skipped", "department", f.Department, "error", err)
		if !errors.Is(err, ErrNotConfigured) {
			err = errors.Join(ErrNotConfigured, err)
		}
		return failed(to, err)
	}

	if len(to) == 0 {
		n.logger.Warn("notification has no recipients", "department", f.Department)
		return failed(to, ErrNoRecipients)
	}

	subject, body, err := n.renderer.Render(f)
	if err != nil {
		n.logger.Error("failed to render notification", "department", f.Department, "error", err)
		return failed(to, err)
	}

	if err := n.transport.Send(ctx, Message{To: to, Subject: subject, Body: body}); err != nil {
		n.logger.Error("failed to send notification", "department", f.Department, "recipients", to, "error", err)
		return failed(to, err)
	}

	n.logger.Info("notification sent", "department", f.Department, "recipients", to)
	return Result{Sent: true, Recipients: to}
}

func cleanRecipients(recipients []string) []string {
	out := make([]string, 0, len(recipients))
	for _, r := range recipients {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
