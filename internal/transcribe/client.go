// Package transcribe drives the transcription provider's asynchronous job
// lifecycle: upload the audio, submit a job against the uploaded URL, then
// poll until the job reaches a terminal state.
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

type Config struct {
	BaseURL      string
	APIKey       string
	PollInterval time.Duration
	PollTimeout  time.Duration
	// SpeechModels maps language codes to the reduced-resource model to
	// request for them.
	SpeechModels map[string]string
}

type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 5 * time.Minute
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Transcribe runs the whole flow. The poll phase is bounded by the
// configured wall-clock timeout and by the caller's context.
func (c *Client) Transcribe(ctx context.Context, audio io.Reader, language string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.PollTimeout)
	defer cancel()

	audioURL, err := c.Upload(ctx, audio)
	if err != nil {
		return "", err
	}

	jobID, err := c.Submit(ctx, audioURL, language)
	if err != nil {
		return "", err
	}

	return c.Poll(ctx, jobID)
}

// Upload sends the raw audio bytes and returns the provider's temporary URL.
func (c *Client) Upload(ctx context.Context, audio io.Reader) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/upload", audio)
	if err != nil {
		return "", fmt.Errorf("build upload request failed: %w", err)
	}
	req.Header.Set("authorization", c.cfg.APIKey)

	var result struct {
		UploadURL string `json:"upload_url"`
	}
	if err := c.doJSON(req, &result); err != nil {
		return "", fmt.Errorf("upload audio failed: %w", err)
	}
	if result.UploadURL == "" {
		return "", fmt.Errorf("upload response missing upload_url")
	}
	return result.UploadURL, nil
}

// Submit requests a transcription job and returns its id.
func (c *Client) Submit(ctx context.Context, audioURL, language string) (string, error) {
	body := map[string]interface{}{
		"audio_url":     audioURL,
		"language_code": language,
	}
	if mdl, ok := c.cfg.SpeechModels[language]; ok {
		body["speech_model"] = mdl
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal transcript request failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/transcript", bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("build transcript request failed: %w", err)
	}
	req.Header.Set("authorization", c.cfg.APIKey)
	req.Header.Set("content-type", "application/json")

	var result struct {
		ID string `json:"id"`
	}
	if err := c.doJSON(req, &result); err != nil {
		return "", fmt.Errorf("submit transcription failed: %w", err)
	}
	if result.ID == "" {
		return "", fmt.Errorf("transcript response missing id")
	}
	return result.ID, nil
}

// Poll checks the job status at a fixed interval until the job completes,
// errors out, or the context expires.
func (c *Client) Poll(ctx context.Context, jobID string) (string, error) {
	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	for {
		status, err := c.fetchStatus(ctx, jobID)
		if err != nil {
			return "", err
		}

		switch status.Status {
		case "completed":
			return status.Text, nil
		case "error":
			detail := status.Error
			if detail == "" {
				detail = "Unknown error"
			}
			return "", fmt.Errorf("transcription failed: %s", detail)
		}

		log.WithFields(log.Fields{"job_id": jobID, "status": status.Status}).Debug("transcription pending")

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("transcription polling aborted: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

type jobStatus struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Text   string `json:"text"`
	Error  string `json:"error"`
}

func (c *Client) fetchStatus(ctx context.Context, jobID string) (*jobStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/transcript/"+jobID, nil)
	if err != nil {
		return nil, fmt.Errorf("build status request failed: %w", err)
	}
	req.Header.Set("authorization", c.cfg.APIKey)

	var status jobStatus
	if err := c.doJSON(req, &status); err != nil {
		return nil, fmt.Errorf("fetch transcription status failed: %w", err)
	}
	return &status, nil
}

func (c *Client) doJSON(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(raw))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse response failed: %w", err)
	}
	return nil
}
