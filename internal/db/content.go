package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrContentNotFound is returned when an update matched no content record.
var ErrContentNotFound = errors.New("content record not found")

// ContentStore patches video columns on the three content tables after an
// upload resolves. It never creates rows; lessons, drills and sparring videos
// are created by the catalog side before an upload is started.
type ContentStore struct {
	dbc *DatabaseConnection
}

func NewContentStore(dbc *DatabaseConnection) *ContentStore {
	return &ContentStore{dbc: dbc}
}

func (s *ContentStore) exec(ctx context.Context, table, query string, args ...any) error {
	tag, err := s.dbc.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update %s %v: %w", table, args[0], ErrContentNotFound)
	}
	return nil
}

func (s *ContentStore) UpdateLessonVideo(ctx context.Context, id uuid.UUID, playbackID, length string, durationMinutes int, thumbnailURL string) error {
	return s.exec(ctx, "lessons",
		`UPDATE lessons
		 SET vimeo_url = $2, length = $3, duration_minutes = $4, thumbnail_url = $5, updated_at = now()
		 WHERE id = $1`,
		id, playbackID, length, durationMinutes, thumbnailURL)
}

func (s *ContentStore) UpdateDrillActionVideo(ctx context.Context, id uuid.UUID, playbackID string, durationMinutes int, thumbnailURL string) error {
	return s.exec(ctx, "drills",
		`UPDATE drills
		 SET vimeo_url = $2, duration_minutes = $3, thumbnail_url = $4, updated_at = now()
		 WHERE id = $1`,
		id, playbackID, durationMinutes, thumbnailURL)
}

func (s *ContentStore) UpdateDrillDescriptionVideo(ctx context.Context, id uuid.UUID, playbackID string, durationMinutes int) error {
	return s.exec(ctx, "drills",
		`UPDATE drills
		 SET description_video_url = $2, duration_minutes = $3, updated_at = now()
		 WHERE id = $1`,
		id, playbackID, durationMinutes)
}

// UpdateDrillVideo is the fallback write for unrecognized content types.
func (s *ContentStore) UpdateDrillVideo(ctx context.Context, id uuid.UUID, playbackID, thumbnailURL string) error {
	return s.exec(ctx, "drills",
		`UPDATE drills
		 SET vimeo_url = $2, thumbnail_url = $3, updated_at = now()
		 WHERE id = $1`,
		id, playbackID, thumbnailURL)
}

func (s *ContentStore) UpdateSparringVideo(ctx context.Context, id uuid.UUID, playbackID, thumbnailURL string) error {
	return s.exec(ctx, "sparring_videos",
		`UPDATE sparring_videos
		 SET video_url = $2, thumbnail_url = $3, updated_at = now()
		 WHERE id = $1`,
		id, playbackID, thumbnailURL)
}

// MarkDrillVideoError writes a visible "ERROR:" marker into the drill's video
// column so the owning record shows why the upload was rejected. The column
// holds either a playback identifier or such a marker, never anything partial.
func (s *ContentStore) MarkDrillVideoError(ctx context.Context, id uuid.UUID, message string) error {
	return s.exec(ctx, "drills",
		`UPDATE drills
		 SET vimeo_url = $2, updated_at = now()
		 WHERE id = $1`,
		id, message)
}
