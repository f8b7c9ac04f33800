// Package notify pushes task reports to a Bark endpoint.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// BarkNotifier sends push notifications through a Bark server. An empty
// API URL disables it entirely; a failed send is logged and swallowed so
// notification problems never interrupt a sync run.
type BarkNotifier struct {
	apiURL     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewBarkNotifier creates a notifier for the given Bark API URL. The URL
// may be empty, in which case every send is a silent no-op.
func NewBarkNotifier(apiURL string, logger *zap.Logger) *BarkNotifier {
	n := &BarkNotifier{
		apiURL:     strings.TrimSpace(apiURL),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
	if n.Enabled() {
		logger.Info("bark notifications enabled")
	} else {
		logger.Info("bark api url not set, notifications disabled")
	}
	return n
}

// Enabled reports whether an API URL is configured.
func (n *BarkNotifier) Enabled() bool {
	return n.apiURL != ""
}

// Send pushes one notification. It returns whether the push was accepted;
// failures are logged, never propagated.
func (n *BarkNotifier) Send(ctx context.Context, title, body string) bool {
	if !n.Enabled() {
		n.logger.Debug("bark disabled, skipping notification")
		return false
	}

	params := url.Values{}
	params.Set("title", title)
	params.Set("body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		n.logger.Error("failed to build bark request", zap.Error(err))
		return false
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		n.logger.Error("bark notification failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		n.logger.Error("bark notification rejected", zap.Int("status", resp.StatusCode))
		return false
	}

	n.logger.Info("bark notification sent", zap.String("title", title))
	return true
}

// SendFilterReport pushes the dedup statistics for one playlist run.
func (n *BarkNotifier) SendFilterReport(ctx context.Context, total, inLibrary, onDisk, toDownload int) bool {
	if !n.Enabled() {
		return false
	}
	body := fmt.Sprintf("%d tracks in playlist\n%d already in library\n%d already on disk\n%d to download",
		total, inLibrary, onDisk, toDownload)
	return n.Send(ctx, "Music Sync Report", body)
}

// SendResultReport pushes the download outcome for one run.
func (n *BarkNotifier) SendResultReport(ctx context.Context, succeeded, failed, total int) bool {
	if !n.Enabled() {
		return false
	}
	body := fmt.Sprintf("%d queued\n%d succeeded\n%d failed", total, succeeded, failed)
	return n.Send(ctx, "Music Download Result", body)
}
