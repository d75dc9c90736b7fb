package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/duckworthlewis/dlc/pkg/dls"
	"github.com/duckworthlewis/dlc/server/internal/config"
)

const maxHistoryLen = 200

// Event describes one change to a match's revised target.
type Event struct {
	MatchID    string           `json:"match_id"`
	Team1      string           `json:"team_1,omitempty"`
	Team2      string           `json:"team_2,omitempty"`
	Target     dls.TargetResult `json:"target"`
	Previous   *int             `json:"previous_target,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// Message renders e as one line of text.
func (e Event) Message() string {
	team := e.Team2
	if team == "" {
		team = "Team 2"
	}
	msg := fmt.Sprintf("Match %s: adjusted target for %s is %d from %d overs (par %.3f)",
		e.MatchID, team, e.Target.Target, e.Target.OversAllotted, e.Target.Par)
	if e.Previous != nil {
		msg += fmt.Sprintf(", was %d", *e.Previous)
	}
	return msg
}

// Notifier tracks the last target per match and posts changes.
//
// Notifier is safe for concurrent use.
type Notifier struct {
	mu       sync.Mutex
	webhooks []config.WebhookConfig
	history  []Event
	client   *http.Client
	now      func() time.Time
	wg       sync.WaitGroup
}

// New creates a Notifier for the given webhooks. An empty list is valid;
// events are still recorded in the history.
func New(webhooks []config.WebhookConfig) *Notifier {
	return &Notifier{
		webhooks: webhooks,
		client:   &http.Client{Timeout: 10 * time.Second},
		now:      time.Now,
	}
}

// SetWebhooks replaces the delivery targets, e.g. after a config reload.
func (n *Notifier) SetWebhooks(webhooks []config.WebhookConfig) {
	n.mu.Lock()
	n.webhooks = webhooks
	n.mu.Unlock()
}

// TargetChanged records cur for the match and, if it differs from prev,
// delivers an Event. A nil prev means no target had been computed before.
func (n *Notifier) TargetChanged(matchID, team1, team2 string, prev *dls.TargetResult, cur dls.TargetResult) {
	if prev != nil && prev.Target == cur.Target && prev.OversAllotted == cur.OversAllotted {
		return
	}
	e := Event{
		MatchID:    matchID,
		Team1:      team1,
		Team2:      team2,
		Target:     cur,
		OccurredAt: n.now().UTC(),
	}
	if prev != nil {
		p := prev.Target
		e.Previous = &p
	}

	n.mu.Lock()
	n.history = append(n.history, e)
	if len(n.history) > maxHistoryLen {
		n.history = n.history[len(n.history)-maxHistoryLen:]
	}
	hooks := n.webhooks
	n.mu.Unlock()

	slog.Info("target changed",
		"match", matchID,
		"target", cur.Target,
		"overs", cur.OversAllotted,
	)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.deliver(hooks, e)
	}()
}

// Recent returns the recorded events, newest first.
func (n *Notifier) Recent() []Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Event, len(n.history))
	for i, e := range n.history {
		out[len(out)-1-i] = e
	}
	return out
}

// Wait blocks until in-flight deliveries finish.
func (n *Notifier) Wait() { n.wg.Wait() }

func (n *Notifier) deliver(hooks []config.WebhookConfig, e Event) {
	for _, wh := range hooks {
		url := wh.URL()
		if url == "" {
			continue
		}

		var err error
		switch wh.Type {
		case "slack":
			err = n.sendSlack(url, e)
		case "teams":
			err = n.sendTeams(url, e)
		case "http":
			err = n.sendHTTP(url, e)
		default:
			slog.Warn("notify: unknown webhook type, skipping", "type", wh.Type)
			continue
		}

		if err != nil {
			slog.Error("notify: webhook delivery failed",
				"type", wh.Type,
				"match", e.MatchID,
				"err", err,
			)
		} else {
			slog.Debug("notify: webhook delivered",
				"type", wh.Type,
				"match", e.MatchID,
			)
		}
	}
}

func (n *Notifier) sendSlack(url string, e Event) error {
	body, _ := json.Marshal(map[string]string{
		"text": "*[DLS]* " + e.Message(),
	})
	return n.post(url, body)
}

func (n *Notifier) sendTeams(url string, e Event) error {
	payload := map[string]any{
		"@type":      "MessageCard",
		"@context":   "http://schema.org/extensions",
		"themeColor": "00D4FF",
		"summary":    "Revised target, match " + e.MatchID,
		"title":      fmt.Sprintf("Revised target: %d", e.Target.Target),
		"text":       e.Message(),
	}
	body, _ := json.Marshal(payload)
	return n.post(url, body)
}

func (n *Notifier) sendHTTP(url string, e Event) error {
	body, _ := json.Marshal(map[string]any{"event": e})
	return n.post(url, body)
}

func (n *Notifier) post(url string, body []byte) error {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("http post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}
