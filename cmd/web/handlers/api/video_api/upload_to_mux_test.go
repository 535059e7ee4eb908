package video_api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"openguard.tv/ingest/cmd/web/internal/web"
	"openguard.tv/ingest/internal/config"
	"openguard.tv/ingest/internal/ingest"
	"openguard.tv/ingest/pkg/mux"
)

type stubHost struct {
	asset   *mux.Asset
	touched bool
}

func (h *stubHost) CreateDirectUpload(ctx context.Context, corsOrigin string) (*mux.DirectUpload, error) {
	h.touched = true
	return &mux.DirectUpload{ID: "upload-1", URL: "https://storage.example.com/put"}, nil
}

func (h *stubHost) GetUpload(ctx context.Context, uploadID string) (*mux.DirectUpload, error) {
	h.touched = true
	return &mux.DirectUpload{ID: uploadID, AssetID: "asset-1"}, nil
}

func (h *stubHost) GetAsset(ctx context.Context, assetID string) (*mux.Asset, error) {
	h.touched = true
	if h.asset == nil {
		return nil, errors.New("no asset configured")
	}
	return h.asset, nil
}

func (h *stubHost) DeleteAsset(ctx context.Context, assetID string) error {
	h.touched = true
	return nil
}

func (h *stubHost) ResolvePlaybackID(ctx context.Context, playbackID string) (string, error) {
	h.touched = true
	if h.asset == nil {
		return "", errors.New("no asset configured")
	}
	return h.asset.ID, nil
}

type stubStore struct {
	errorMarker string
	updates     int
}

func (s *stubStore) UpdateLessonVideo(ctx context.Context, id uuid.UUID, playbackID, length string, durationMinutes int, thumbnailURL string) error {
	s.updates++
	return nil
}

func (s *stubStore) UpdateDrillActionVideo(ctx context.Context, id uuid.UUID, playbackID string, durationMinutes int, thumbnailURL string) error {
	s.updates++
	return nil
}

func (s *stubStore) UpdateDrillDescriptionVideo(ctx context.Context, id uuid.UUID, playbackID string, durationMinutes int) error {
	s.updates++
	return nil
}

func (s *stubStore) UpdateDrillVideo(ctx context.Context, id uuid.UUID, playbackID, thumbnailURL string) error {
	s.updates++
	return nil
}

func (s *stubStore) UpdateSparringVideo(ctx context.Context, id uuid.UUID, playbackID, thumbnailURL string) error {
	s.updates++
	return nil
}

func (s *stubStore) MarkDrillVideoError(ctx context.Context, id uuid.UUID, message string) error {
	s.errorMarker = message
	return nil
}

func validConfig() *config.Config {
	return &config.Config{
		DatabaseDSN:    "postgres://localhost/openguard",
		MuxTokenID:     "token-id",
		MuxTokenSecret: "token-secret",
	}
}

func newTestServer(t *testing.T, cfg *config.Config, host *stubHost, store *stubStore) *web.Webserver {
	t.Helper()

	var svc *ingest.Service
	if len(cfg.MissingVars()) == 0 {
		svc = ingest.NewService(host, store, ingest.ServiceConfig{
			Poll: ingest.PollConfig{Attempts: 3, Interval: time.Millisecond},
			Peek: ingest.PollConfig{Attempts: 2, Interval: time.Millisecond},
		})
	}

	srv, err := web.NewWebserver(cfg, svc)
	require.NoError(t, err)
	return srv
}

func postAction(t *testing.T, srv *web.Webserver, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/upload-to-mux", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestMissingEnvGuard(t *testing.T) {
	cfg := &config.Config{DatabaseDSN: "postgres://localhost/openguard"}
	host := &stubHost{}
	srv := newTestServer(t, cfg, host, &stubStore{})

	for _, action := range []string{"create_upload", "complete_upload", "get_asset_info", "get_video_info"} {
		rec := postAction(t, srv, `{"action":"`+action+`"}`)
		require.Equal(t, 500, rec.Code, "action %s", action)

		body := decodeBody(t, rec)
		require.Contains(t, body["error"], "MUX_TOKEN_ID")
		require.Contains(t, body["error"], "MUX_TOKEN_SECRET")
		require.NotContains(t, body["error"], "DATABASE_DSN")
	}

	require.False(t, host.touched, "env guard must run before any network call")
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, validConfig(), &stubHost{}, &stubStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/upload-to-mux", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, 405, rec.Code)
}

func TestOptionsShortCircuits(t *testing.T) {
	srv := newTestServer(t, validConfig(), &stubHost{}, &stubStore{})

	req := httptest.NewRequest(http.MethodOptions, "/api/upload-to-mux", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, 200, rec.Code)
}

func TestCORSHeadersOnResponse(t *testing.T) {
	srv := newTestServer(t, validConfig(), &stubHost{asset: &mux.Asset{ID: "asset-1"}}, &stubStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/upload-to-mux", strings.NewReader(`{"action":"create_upload"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestInvalidJSON(t *testing.T) {
	srv := newTestServer(t, validConfig(), &stubHost{}, &stubStore{})

	rec := postAction(t, srv, `{"action":`)
	require.Equal(t, 400, rec.Code)
}

func TestUnknownAction(t *testing.T) {
	srv := newTestServer(t, validConfig(), &stubHost{}, &stubStore{})

	rec := postAction(t, srv, `{"action":"transcode"}`)
	require.Equal(t, 400, rec.Code)
	require.Contains(t, decodeBody(t, rec)["error"], "unknown action")
}

func TestCreateUploadAction(t *testing.T) {
	srv := newTestServer(t, validConfig(), &stubHost{}, &stubStore{})

	rec := postAction(t, srv, `{"action":"create_upload","fileSize":1048576}`)
	require.Equal(t, 200, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, true, body["success"])
	require.Equal(t, "https://storage.example.com/put", body["uploadUrl"])
	require.Equal(t, "upload-1", body["uploadId"])
	require.Equal(t, "upload-1", body["videoId"])
	require.Nil(t, body["playbackId"])
}

func TestCompleteUploadAction(t *testing.T) {
	contentID := uuid.NewString()
	host := &stubHost{asset: &mux.Asset{
		ID:          "asset-1",
		Status:      "ready",
		Duration:    45,
		PlaybackIDs: []mux.PlaybackID{{ID: "pb1"}},
	}}
	store := &stubStore{}
	srv := newTestServer(t, validConfig(), host, store)

	rec := postAction(t, srv, `{"action":"complete_upload","assetId":"asset-1","contentId":"`+contentID+`","contentType":"drill","videoType":"action"}`)
	require.Equal(t, 200, rec.Code)
	require.Equal(t, true, decodeBody(t, rec)["success"])
	require.Equal(t, 1, store.updates)
}

func TestCompleteUploadAction_DrillOverLimit(t *testing.T) {
	contentID := uuid.NewString()
	host := &stubHost{asset: &mux.Asset{
		ID:          "asset-1",
		Status:      "ready",
		Duration:    120,
		PlaybackIDs: []mux.PlaybackID{{ID: "pb1"}},
	}}
	store := &stubStore{}
	srv := newTestServer(t, validConfig(), host, store)

	rec := postAction(t, srv, `{"action":"complete_upload","assetId":"asset-1","contentId":"`+contentID+`","contentType":"drill","videoType":"action"}`)
	require.Equal(t, 400, rec.Code)

	body := decodeBody(t, rec)
	require.Contains(t, body["error"], "90초")
	require.Zero(t, store.updates)
	require.True(t, strings.HasPrefix(store.errorMarker, "ERROR:"))
}

func TestCompleteUploadAction_MissingIdentifiers(t *testing.T) {
	srv := newTestServer(t, validConfig(), &stubHost{}, &stubStore{})

	rec := postAction(t, srv, `{"action":"complete_upload","contentId":"`+uuid.NewString()+`"}`)
	require.Equal(t, 500, rec.Code)
	require.Contains(t, decodeBody(t, rec)["error"], "uploadId or assetId")
}

func TestGetVideoInfoAction(t *testing.T) {
	host := &stubHost{asset: &mux.Asset{
		ID:          "asset-1",
		Status:      "ready",
		Duration:    61.5,
		AspectRatio: "16:9",
		PlaybackIDs: []mux.PlaybackID{{ID: "pb1"}},
	}}
	srv := newTestServer(t, validConfig(), host, &stubStore{})

	rec := postAction(t, srv, `{"action":"get_video_info","playbackId":"pb1"}`)
	require.Equal(t, 200, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, "asset-1", body["assetId"])
	require.Equal(t, 61.5, body["duration"])
	require.Equal(t, "16:9", body["aspectRatio"])
}

func TestGetAssetInfoAction(t *testing.T) {
	host := &stubHost{asset: &mux.Asset{
		ID:          "asset-1",
		Status:      "ready",
		Duration:    42,
		PlaybackIDs: []mux.PlaybackID{{ID: "pb1"}},
	}}
	srv := newTestServer(t, validConfig(), host, &stubStore{})

	rec := postAction(t, srv, `{"action":"get_asset_info","assetId":"asset-1"}`)
	require.Equal(t, 200, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, "pb1", body["playbackId"])
	require.Equal(t, 42.0, body["duration"])
}
