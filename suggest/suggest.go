// Package suggest asks a language model for a non-overlapping start time for
// a new task.
package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/GoCodeAlone/timetable/provider"
	"github.com/GoCodeAlone/timetable/task"
)

// ErrNoProvider is returned when suggestions are requested but no provider is
// configured.
var ErrNoProvider = errors.New("no suggestion provider configured")

// Suggestion is the model's proposed start time and its reasoning.
type Suggestion struct {
	SuggestedStartTime time.Time `json:"suggested_start_time"`
	Reason             string    `json:"reason"`
}

// Suggester proposes a start time for a requirement given the existing tasks.
type Suggester interface {
	Suggest(ctx context.Context, tasks []*task.Task, requirement string) (*Suggestion, error)
}

// Service is a Suggester backed by a provider.
type Service struct {
	provider provider.Provider
	logger   *zap.Logger
}

// NewService returns a Service using p. A nil logger discards logs.
func NewService(p provider.Provider, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{provider: p, logger: logger}
}

// Suggest builds the prompt, calls the provider and decodes its answer.
func (s *Service) Suggest(ctx context.Context, tasks []*task.Task, requirement string) (*Suggestion, error) {
	if s == nil || s.provider == nil {
		return nil, ErrNoProvider
	}
	prompt, err := BuildPrompt(tasks, requirement)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := s.provider.Chat(ctx, []provider.Message{{Role: provider.RoleUser, Content: prompt}})
	if err != nil {
		s.logger.Warn("suggestion request failed",
			zap.String("provider", s.provider.Name()), zap.Error(err))
		return nil, fmt.Errorf("suggest: %w", err)
	}
	s.logger.Debug("suggestion received",
		zap.String("provider", s.provider.Name()),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("input_tokens", resp.Usage.InputTokens),
		zap.Int("output_tokens", resp.Usage.OutputTokens))

	sug, err := ParseSuggestion(resp.Content)
	if err != nil {
		s.logger.Warn("undecodable suggestion", zap.String("content", resp.Content), zap.Error(err))
		return nil, err
	}
	return sug, nil
}

// BuildPrompt embeds the existing tasks as JSON and asks for an ISO 8601
// start time and a reason, as JSON only.
func BuildPrompt(tasks []*task.Task, requirement string) (string, error) {
	if tasks == nil {
		tasks = []*task.Task{}
	}
	summary, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("encode tasks: %w", err)
	}
	return fmt.Sprintf("You are a scheduling assistant. Here are existing tasks: %s.\n"+
		"User wants to schedule: '%s'.\n"+
		"Suggest a start time (ISO 8601 format) that does not overlap and a brief reason.\n"+
		`Return ONLY valid JSON format: { "suggested_start_time": "...", "reason": "..." }`,
		summary, requirement), nil
}

// CleanResponse strips markdown code fences wrapped around a JSON payload.
func CleanResponse(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// ParseSuggestion decodes a model reply into a Suggestion.
func ParseSuggestion(text string) (*Suggestion, error) {
	var sug Suggestion
	if err := json.Unmarshal([]byte(CleanResponse(text)), &sug); err != nil {
		return nil, fmt.Errorf("parse suggestion: %w", err)
	}
	if sug.SuggestedStartTime.IsZero() {
		return nil, fmt.Errorf("parse suggestion: missing suggested_start_time")
	}
	sug.SuggestedStartTime = sug.SuggestedStartTime.UTC()
	return &sug, nil
}
