package suggest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoCodeAlone/timetable/material"
	"github.com/GoCodeAlone/timetable/provider/mock"
	"github.com/GoCodeAlone/timetable/task"
)

func TestCleanResponse(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```\n", `{"a":1}`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanResponse(tt.in))
	}
}

func TestParseSuggestion(t *testing.T) {
	sug, err := ParseSuggestion("```json\n{\"suggested_start_time\": \"2025-03-14T15:00:00+02:00\", \"reason\": \"after painting\"}\n```")
	require.NoError(t, err)
	assert.True(t, time.Date(2025, 3, 14, 13, 0, 0, 0, time.UTC).Equal(sug.SuggestedStartTime))
	assert.Equal(t, "after painting", sug.Reason)

	_, err = ParseSuggestion("I think 3pm works")
	assert.Error(t, err)

	_, err = ParseSuggestion(`{"reason": "no time"}`)
	assert.Error(t, err)
}

func TestBuildPrompt(t *testing.T) {
	tasks := []*task.Task{{
		ID: "t1", OperatorID: "alice", OperationID: "Cut",
		StartTime: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC),
		Materials: material.FromMap(map[string]string{"Wood": "3 kg"}),
	}}
	prompt, err := BuildPrompt(tasks, "paint the chair")
	require.NoError(t, err)
	assert.Contains(t, prompt, `"operation_id":"Cut"`)
	assert.Contains(t, prompt, `"materials":{"Wood":"3 kg"}`)
	assert.Contains(t, prompt, "'paint the chair'")
	assert.Contains(t, prompt, "ISO 8601")

	empty, err := BuildPrompt(nil, "x")
	require.NoError(t, err)
	assert.Contains(t, empty, "existing tasks: [].")
}

func TestService_Suggest(t *testing.T) {
	p := mock.New("```json\n{\"suggested_start_time\": \"2025-03-14T11:00:00Z\", \"reason\": \"gap\"}\n```")
	svc := NewService(p, nil)

	sug, err := svc.Suggest(context.Background(), nil, "glue legs")
	require.NoError(t, err)
	assert.Equal(t, "gap", sug.Reason)
	assert.Equal(t, 11, sug.SuggestedStartTime.Hour())

	calls := p.Calls()
	require.Len(t, calls, 1)
	assert.True(t, strings.Contains(calls[0][0].Content, "glue legs"))
}

func TestService_ProviderFailure(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(mock.Failing(boom), nil)
	_, err := svc.Suggest(context.Background(), nil, "x")
	assert.ErrorIs(t, err, boom)
}

func TestService_NoProvider(t *testing.T) {
	var svc *Service
	_, err := svc.Suggest(context.Background(), nil, "x")
	assert.ErrorIs(t, err, ErrNoProvider)

	_, err = NewService(nil, nil).Suggest(context.Background(), nil, "x")
	assert.ErrorIs(t, err, ErrNoProvider)
}
