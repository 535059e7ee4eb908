package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// Service runs the ingestion workflow. It holds no cross-request state; two
// concurrent completions for the same content record race and the later
// database write wins.
type Service struct {
	host       Host
	store      ContentStore
	corsOrigin string
	poll       PollConfig
	peek       PollConfig
	log        *slog.Logger
}

type ServiceConfig struct {
	CORSOrigin string
	Poll       PollConfig
	Peek       PollConfig
	Logger     *slog.Logger
}

func NewService(host Host, store ContentStore, cfg ServiceConfig) *Service {
	if cfg.CORSOrigin == "" {
		cfg.CORSOrigin = "*"
	}
	if cfg.Poll.Attempts < 1 {
		cfg.Poll.Attempts = 20
	}
	if cfg.Poll.Interval <= 0 {
		cfg.Poll.Interval = 5 * time.Second
	}
	if cfg.Peek.Attempts < 1 {
		cfg.Peek.Attempts = 5
	}
	if cfg.Peek.Interval <= 0 {
		cfg.Peek.Interval = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Service{
		host:       host,
		store:      store,
		corsOrigin: cfg.CORSOrigin,
		poll:       cfg.Poll,
		peek:       cfg.Peek,
		log:        cfg.Logger,
	}
}

// CreateUpload issues a direct-upload slot on the host. fileSize is a hint
// from the client; it is logged but not enforced.
func (s *Service) CreateUpload(ctx context.Context, fileSize int64) (*UploadSession, error) {
	if fileSize > 0 {
		s.log.Info("creating direct upload", "file_size", humanize.Bytes(uint64(fileSize)))
	} else {
		s.log.Info("creating direct upload")
	}

	up, err := s.host.CreateDirectUpload(ctx, s.corsOrigin)
	if err != nil {
		return nil, fmt.Errorf("create direct upload: %w", err)
	}

	return &UploadSession{UploadURL: up.URL, UploadID: up.ID}, nil
}

// CompleteUpload resolves the uploaded asset, enforces the drill duration
// ceiling and persists the playback identifier into the owning content
// record. Calling it again for an already-resolved asset repeats the
// poll-and-write; there is no idempotency lock.
func (s *Service) CompleteUpload(ctx context.Context, req CompleteRequest) (*CompleteResult, error) {
	if req.UploadID == "" && req.AssetID == "" {
		return nil, fmt.Errorf("one of uploadId or assetId is required")
	}
	if req.UploadID != "" && req.AssetID != "" {
		return nil, fmt.Errorf("uploadId and assetId are mutually exclusive")
	}
	contentID, err := uuid.Parse(req.ContentID)
	if err != nil {
		return nil, fmt.Errorf("invalid contentId %q: %w", req.ContentID, err)
	}

	assetID := req.AssetID
	if assetID == "" {
		up, err := s.host.GetUpload(ctx, req.UploadID)
		if err != nil {
			return nil, fmt.Errorf("look up upload %s: %w", req.UploadID, err)
		}
		// The upload may not be bound to an asset yet; the poll loop
		// re-resolves it until the host knows the asset.
		assetID = up.AssetID
	}

	asset, err := s.awaitAsset(ctx, assetID, req.UploadID, s.poll)
	if err != nil {
		return nil, err
	}

	playbackID := asset.FirstPlaybackID()
	s.log.Info("asset resolved",
		"asset_id", asset.ID,
		"playback_id", playbackID,
		"duration_seconds", asset.Duration,
		"content_id", req.ContentID,
		"content_type", req.ContentType)

	if req.ContentType == ContentTypeDrill && asset.Duration > DrillMaxDurationSeconds {
		return nil, s.rejectOverlongDrill(ctx, contentID, asset)
	}

	if err := s.writeContentRecord(ctx, contentID, req, playbackID, asset.Duration); err != nil {
		return nil, err
	}

	return &CompleteResult{PlaybackID: playbackID, DurationSeconds: asset.Duration}, nil
}

// AssetInfo is a short peek at an asset, used by URL-import flows. It polls
// briefly but never writes a content record.
func (s *Service) AssetInfo(ctx context.Context, assetID string) (*AssetDetails, error) {
	if assetID == "" {
		return nil, fmt.Errorf("assetId is required")
	}

	asset, err := s.awaitAsset(ctx, assetID, "", s.peek)
	if err != nil {
		return nil, err
	}

	return &AssetDetails{
		PlaybackID:      asset.FirstPlaybackID(),
		DurationSeconds: asset.Duration,
	}, nil
}

// VideoInfo resolves a playback identifier to its asset and reports duration
// and aspect ratio. Single-shot lookups; any non-success fails immediately.
func (s *Service) VideoInfo(ctx context.Context, playbackID string) (*VideoDetails, error) {
	if playbackID == "" {
		return nil, fmt.Errorf("playbackId is required")
	}

	assetID, err := s.host.ResolvePlaybackID(ctx, playbackID)
	if err != nil {
		return nil, fmt.Errorf("resolve playback id %s: %w", playbackID, err)
	}

	asset, err := s.host.GetAsset(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("fetch asset %s: %w", assetID, err)
	}

	return &VideoDetails{
		AssetID:         asset.ID,
		DurationSeconds: asset.Duration,
		AspectRatio:     asset.AspectRatio,
	}, nil
}
