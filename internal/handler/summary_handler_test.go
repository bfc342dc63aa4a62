package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campusvoice/feedback-api/internal/models"
	"github.com/campusvoice/feedback-api/internal/service"
	appErrors "github.com/campusvoice/feedback-api/pkg/errors"
)

type stubSummaryService struct {
	lastRequest service.SummarizeRequest
	summary     string
	err         error
}

func (s *stubSummaryService) Summarize(_ context.Context, _ models.Actor, req service.SummarizeRequest) (string, error) {
	s.lastRequest = req
	return s.summary, s.err
}

func TestSummarizeReturnsSummaryEnvelope(t *testing.T) {
	svc := &stubSummaryService{summary: "- wifi is slow\n- canteen queue too long"}
	h := NewSummaryHandler(svc, &stubActorResolver{})

	payload := bytes.NewBufferString(`{"feedback_ids": [1, 2, 3]}`)
	req := httptest.NewRequest(http.MethodPost, "/coordinator/summaries", payload)
	req.Header.Set("Content-Type", "application/json")
	c, w := testContext(t, req)

	h.Summarize(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []int64{1, 2, 3}, svc.lastRequest.FeedbackIDs)

	var envelope struct {
		Data struct {
			Summary string `json:"summary"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, svc.summary, envelope.Data.Summary)
}

func TestSummarizeRejectsMalformedBody(t *testing.T) {
	h := NewSummaryHandler(&stubSummaryService{}, &stubActorResolver{})

	req := httptest.NewRequest(http.MethodPost, "/coordinator/summaries", bytes.NewBufferString(`{"feedback_ids": "one"}`))
	req.Header.Set("Content-Type", "application/json")
	c, w := testContext(t, req)

	h.Summarize(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSummarizePropagatesGatewayUnavailable(t *testing.T) {
	h := NewSummaryHandler(&stubSummaryService{err: appErrors.ErrGatewayUnconfigured}, &stubActorResolver{})

	req := httptest.NewRequest(http.MethodPost, "/coordinator/summaries", bytes.NewBufferString(`{"feedback_ids": [1]}`))
	req.Header.Set("Content-Type", "application/json")
	c, w := testContext(t, req)

	h.Summarize(c)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}
