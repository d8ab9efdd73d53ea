// Package dictionary looks up pronunciation audio for English words.
package dictionary

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Logger is the subset of the application logger the client uses
type Logger interface {
	Debug(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
}

type Config struct {
	Enabled bool
	BaseURL string
	Timeout time.Duration
	Retries int
}

// Phonetic is one pronunciation of an entry
type Phonetic struct {
	Text  string `json:"text"`
	Audio string `json:"audio"`
}

// Entry is one dictionary result for a word.
type Entry struct {
	Word      string     `json:"word"`
	Phonetic  string     `json:"phonetic"`
	Phonetics []Phonetic `json:"phonetics"`
}

// Client queries a dictionaryapi.dev compatible service.
type Client struct {
	http    *resty.Client
	enabled bool
	logger  Logger
}

func New(cfg Config, logger Logger) *Client {
	if logger == nil {
		logger = nopLogger{}
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(time.Second)

	client.AddRetryCondition(retryCondition)

	return &Client{
		http:    client,
		enabled: cfg.Enabled && cfg.BaseURL != "",
		logger:  logger,
	}
}

// Lookup fetches the entries for word.
func (c *Client) Lookup(ctx context.Context, word string) ([]Entry, error) {
	var entries []Entry
	res, err := c.http.R().
		SetContext(ctx).
		SetPathParam("word", strings.TrimSpace(word)).
		SetResult(&entries).
		Get("/{word}")
	if err != nil {
		return nil, err
	}

	if !res.IsSuccess() {
		return nil, &StatusError{Word: word, StatusCode: res.StatusCode()}
	}

	return entries, nil
}

// AudioURL returns the first non empty phonetics audio for word. Lookup
// failures are logged and reported as no audio.
func (c *Client) AudioURL(ctx context.Context, word string) string {
	if !c.enabled || strings.TrimSpace(word) == "" {
		return ""
	}

	entries, err := c.Lookup(ctx, word)
	if err != nil {
		c.logger.Warn("dictionary lookup failed", "word", word, "error", err)
		return ""
	}

	if audio := FirstAudio(entries); audio != "" {
		return audio
	}

	c.logger.Debug("dictionary has no audio", "word", word)
	return ""
}

// FirstAudio picks the first non empty audio across all entries.
func FirstAudio(entries []Entry) string {
	for _, entry := range entries {
		for _, p := range entry.Phonetics {
			if audio := strings.TrimSpace(p.Audio); audio != "" {
				return audio
			}
		}
	}
	return ""
}

func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	return r.StatusCode() >= http.StatusInternalServerError || r.StatusCode() == http.StatusTooManyRequests
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
