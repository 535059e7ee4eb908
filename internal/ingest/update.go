package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"openguard.tv/ingest/pkg/utils/format"
)

// writeContentRecord routes the resolved playback identifier to the right
// table and columns:
//
//	lesson            -> lessons.vimeo_url            (+ length, duration_minutes, thumbnail)
//	drill / action    -> drills.vimeo_url             (+ duration_minutes, thumbnail)
//	drill / other     -> drills.description_video_url (+ duration_minutes)
//	sparring          -> sparring_videos.video_url    (+ thumbnail)
//	anything else     -> drills.vimeo_url             (+ thumbnail)
//
// Write failures propagate; a success response must mean the record was
// actually patched.
func (s *Service) writeContentRecord(ctx context.Context, contentID uuid.UUID, req CompleteRequest, playbackID string, durationSeconds float64) error {
	thumbnail := ThumbnailURL(playbackID)
	minutes := format.DurationMinutes(durationSeconds)

	var err error
	switch {
	case req.ContentType == ContentTypeLesson:
		err = s.store.UpdateLessonVideo(ctx, contentID, playbackID, format.VideoLength(durationSeconds), minutes, thumbnail)
	case req.ContentType == ContentTypeDrill && req.VideoType == VideoTypeAction:
		err = s.store.UpdateDrillActionVideo(ctx, contentID, playbackID, minutes, thumbnail)
	case req.ContentType == ContentTypeDrill:
		err = s.store.UpdateDrillDescriptionVideo(ctx, contentID, playbackID, minutes)
	case req.ContentType == ContentTypeSparring:
		err = s.store.UpdateSparringVideo(ctx, contentID, playbackID, thumbnail)
	default:
		err = s.store.UpdateDrillVideo(ctx, contentID, playbackID, thumbnail)
	}
	if err != nil {
		return fmt.Errorf("write content record %s: %w", contentID, err)
	}
	return nil
}
