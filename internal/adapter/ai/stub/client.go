// Package stub provides a fast, deterministic AI client for local runs
// when no Groq API key is configured.
package stub

import (
	"time"

	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/domain"
)

// Client is a canned-answer AI client. Useful for local development and
// handler tests without burning API quota.
type Client struct{}

func New() *Client { return &Client{} }

const cannedAnswer = `## Kenya Startup Ecosystem Advice

**Recommended next steps** for your startup in Nairobi:

1. Register your business through the eCitizen platform
2. Apply to the iHub accelerator program
3. Contact the Nairobi Angel Network for early funding

- The CBK regulatory sandbox supports fintech pilots
- Visit https://ihub.co.ke to learn about community events

You should validate your market before approaching VCs like TLcom Capital.`

// ChatCompletion returns a structured canned answer resembling real output.
func (c *Client) ChatCompletion(_ domain.Context, _ string, _ string) (string, error) {
	// Simulate a tiny bit of processing latency to resemble real work
	time.Sleep(50 * time.Millisecond)
	return cannedAnswer, nil
}

// ChatStream emits the canned answer in small chunks.
func (c *Client) ChatStream(_ domain.Context, _ string, _ string, fn func(chunk string) error) error {
	const chunkSize = 40
	for i := 0; i < len(cannedAnswer); i += chunkSize {
		end := i + chunkSize
		if end > len(cannedAnswer) {
			end = len(cannedAnswer)
		}
		if err := fn(cannedAnswer[i:end]); err != nil {
			return err
		}
	}
	return nil
}
