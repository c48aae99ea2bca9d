package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"mediasort/internal/config"
)

const userAgent = "mediasort/0.1.0"

// RunOutcome is the subset of a finished run worth announcing.
type RunOutcome struct {
	RunID      string
	Output     string
	PlanOnly   bool
	InputFiles int
	Placed     int
	Duplicates int
	Unsure     int
	Failed     int
	Bytes      int64
	Duration   time.Duration
}

// Service is the notification surface used by the run wiring.
type Service interface {
	NotifyRunCompleted(ctx context.Context, outcome RunOutcome) error
	NotifyRunFailed(ctx context.Context, outcome RunOutcome, err error) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyRunCompleted(ctx context.Context, outcome RunOutcome) error {
	title := "mediasort - Run Complete"
	verb := "Organized"
	if outcome.PlanOnly {
		title = "mediasort - Plan Ready"
		verb = "Planned"
	}
	tags := []string{"mediasort", "organize", "completed"}
	if outcome.Failed > 0 {
		title += " (with errors)"
		tags = append(tags, "warning")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %d of %d files into %s", verb, outcome.Placed, outcome.InputFiles, outcome.Output)
	fmt.Fprintf(&b, "\nDuplicates: %d, unsure: %d", outcome.Duplicates, outcome.Unsure)
	if outcome.Failed > 0 {
		fmt.Fprintf(&b, ", failed: %d", outcome.Failed)
	}
	fmt.Fprintf(&b, "\nHashed %s in %s", humanize.Bytes(uint64(max(outcome.Bytes, 0))), roundDuration(outcome.Duration))

	return n.send(ctx, payload{title: title, message: b.String(), tags: tags})
}

func (n *ntfyService) NotifyRunFailed(ctx context.Context, outcome RunOutcome, err error) error {
	var b strings.Builder
	b.WriteString("Organize run failed")
	if outcome.Output != "" {
		b.WriteString(" for ")
		b.WriteString(outcome.Output)
	}
	b.WriteString(": ")
	if err != nil {
		b.WriteString(strings.TrimSpace(err.Error()))
	} else {
		b.WriteString("unknown")
	}
	if outcome.RunID != "" {
		fmt.Fprintf(&b, "\nRun ID: %s", outcome.RunID)
	}

	return n.send(ctx, payload{
		title:    "mediasort - Error",
		message:  b.String(),
		tags:     []string{"mediasort", "error", "alert"},
		priority: "high",
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:    "mediasort - Test",
		message:  "Notification system test",
		tags:     []string{"mediasort", "test"},
		priority: "low",
	})
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func roundDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d <= 0 {
		return "0s"
	}
	return d.String()
}

type noopService struct{}

func (noopService) NotifyRunCompleted(context.Context, RunOutcome) error      { return nil }
func (noopService) NotifyRunFailed(context.Context, RunOutcome, error) error { return nil }
func (noopService) TestNotification(context.Context) error                    { return nil }
