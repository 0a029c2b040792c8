package handler

import (
	"NewsDesk/internal/api/dto"
	"NewsDesk/internal/service"
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubTracker struct {
	lastView       *dto.ViewTrackReq
	lastEngagement *dto.EngagementReq
	viewErr        error
	engagementErr  error
	updated        bool
}

func (s *stubTracker) RecordView(_ context.Context, req *dto.ViewTrackReq) (*dto.ViewTrackResultDTO, error) {
	s.lastView = req
	if s.viewErr != nil {
		return nil, s.viewErr
	}
	return &dto.ViewTrackResultDTO{
		TrackingID:   "65f2c0ffee0000000000abcd",
		ArticleSlug:  req.ArticleSlug,
		SessionID:    "sess",
		NewViewCount: 6,
		IsUniqueView: true,
		ArticleFound: true,
	}, nil
}

func (s *stubTracker) RecordEngagement(_ context.Context, req *dto.EngagementReq) (*dto.EngagementResultDTO, error) {
	s.lastEngagement = req
	if s.engagementErr != nil {
		return nil, s.engagementErr
	}
	return &dto.EngagementResultDTO{Updated: s.updated}, nil
}

func newAnalyticsRouter(tracker service.ViewTrackerService) *gin.Engine {
	r := gin.New()
	h := NewAnalyticsHandler(tracker)
	r.POST("/api/analytics/view", h.TrackView)
	r.POST("/api/analytics/engagement", h.TrackEngagement)
	return r
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func doJSON(t *testing.T, r http.Handler, path, body string, header map[string]string) (*httptest.ResponseRecorder, envelope) {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "198.51.100.4:50000"
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func TestTrackView_Success(t *testing.T) {
	tracker := &stubTracker{}
	r := newAnalyticsRouter(tracker)

	body := `{"articleSlug":"a1","sessionId":"s1","referrer":"https://news.example/","timestamp":1773482400000,
		"clientInfo":{"language":"en","screenWidth":1280,"colorDepth":24}}`
	w, env := doJSON(t, r, "/api/analytics/view", body, map[string]string{"User-Agent": "UnitTest/1.0"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	var data dto.ViewTrackResultDTO
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, int64(6), data.NewViewCount)
	assert.True(t, data.IsUniqueView)

	req := tracker.lastView
	require.NotNil(t, req)
	assert.Equal(t, "198.51.100.4", req.ClientAddress)
	assert.Equal(t, "UnitTest/1.0", req.UserAgent)
	require.NotNil(t, req.Timestamp)
	assert.Equal(t, float64(1773482400000), *req.Timestamp)
	require.NotNil(t, req.ClientInfo)
	assert.Equal(t, "en", req.ClientInfo.Language)
	assert.Equal(t, 1280, *req.ClientInfo.ScreenWidth)
	assert.Equal(t, float64(24), req.ClientInfo.Extra["colorDepth"])
}

func TestTrackView_FractionalTimestamp(t *testing.T) {
	tracker := &stubTracker{}
	r := newAnalyticsRouter(tracker)

	w, env := doJSON(t, r, "/api/analytics/view", `{"articleSlug":"a1","timestamp":1773482400123.456}`, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	require.NotNil(t, tracker.lastView)
	require.NotNil(t, tracker.lastView.Timestamp)
	assert.InDelta(t, 1773482400123.456, *tracker.lastView.Timestamp, 1e-3)
}

func TestTrackView_IgnoresBodyClientAddress(t *testing.T) {
	tracker := &stubTracker{}
	r := newAnalyticsRouter(tracker)

	_, env := doJSON(t, r, "/api/analytics/view", `{"articleSlug":"a1","ClientAddress":"6.6.6.6"}`, nil)
	assert.True(t, env.Success)
	assert.Equal(t, "198.51.100.4", tracker.lastView.ClientAddress)
}

func TestTrackView_BadRequest(t *testing.T) {
	for _, body := range []string{
		`{}`,
		`{"articleSlug":""}`,
		`not json`,
		`{"articleSlug":"a1","timestamp":"yesterday"}`,
	} {
		tracker := &stubTracker{}
		r := newAnalyticsRouter(tracker)

		w, env := doJSON(t, r, "/api/analytics/view", body, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.False(t, env.Success)
		assert.NotEmpty(t, env.Error)
		assert.Nil(t, tracker.lastView)
	}
}

func TestTrackView_StorageUnavailable(t *testing.T) {
	tracker := &stubTracker{viewErr: fmt.Errorf("%w: %w", service.ErrStorageUnavailable, errors.New("server selection timeout"))}
	r := newAnalyticsRouter(tracker)

	w, env := doJSON(t, r, "/api/analytics/view", `{"articleSlug":"a1"}`, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, service.ErrStorageUnavailable.Error(), env.Error)
}

func TestTrackEngagement(t *testing.T) {
	tracker := &stubTracker{updated: true}
	r := newAnalyticsRouter(tracker)

	w, env := doJSON(t, r, "/api/analytics/engagement",
		`{"articleSlug":"a1","sessionId":"s1","action":"track-duration","viewDuration":42}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.JSONEq(t, `{"updated":true}`, string(env.Data))
	require.NotNil(t, tracker.lastEngagement.ViewDuration)
	assert.Equal(t, float64(42), *tracker.lastEngagement.ViewDuration)
}

func TestTrackEngagement_NotFoundIsSuccess(t *testing.T) {
	r := newAnalyticsRouter(&stubTracker{updated: false})

	w, env := doJSON(t, r, "/api/analytics/engagement",
		`{"articleSlug":"a1","sessionId":"s1","action":"track-scroll","scrollDepth":80}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.JSONEq(t, `{"updated":false}`, string(env.Data))
}

func TestTrackEngagement_BadRequest(t *testing.T) {
	for _, body := range []string{
		`{"articleSlug":"a1","action":"track-duration","viewDuration":1}`,
		`{"articleSlug":"a1","sessionId":"s1","action":"track-clicks"}`,
		`{"articleSlug":"a1","sessionId":"s1","action":"track-scroll","scrollDepth":150}`,
		`{"articleSlug":"a1","sessionId":"s1","action":"track-duration","viewDuration":-3}`,
	} {
		tracker := &stubTracker{}
		r := newAnalyticsRouter(tracker)

		w, env := doJSON(t, r, "/api/analytics/engagement", body, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.False(t, env.Success)
		assert.Nil(t, tracker.lastEngagement)
	}
}

func TestTrackEngagement_ServiceParamError(t *testing.T) {
	r := newAnalyticsRouter(&stubTracker{engagementErr: service.ErrParamInvalid})

	w, env := doJSON(t, r, "/api/analytics/engagement",
		`{"articleSlug":"a1","sessionId":"s1","action":"track-duration"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.ErrParamInvalid.Error(), env.Error)
}
