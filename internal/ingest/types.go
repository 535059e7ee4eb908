// package ingest owns the video-host asset-ingestion workflow: issuing
// direct-upload links, polling assets until they are playable, enforcing the
// drill duration ceiling and patching the owning content record.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"openguard.tv/ingest/pkg/mux"
	"openguard.tv/ingest/pkg/utils/format"
)

// Content types this workflow routes on.
const (
	ContentTypeLesson   = "lesson"
	ContentTypeDrill    = "drill"
	ContentTypeSparring = "sparring"
)

// VideoTypeAction marks a drill's demonstration clip, as opposed to its
// description video.
const VideoTypeAction = "action"

// DrillMaxDurationSeconds is the ceiling for drill clips. Drills are
// short-form content; the player UI assumes it. Not configurable.
const DrillMaxDurationSeconds = 90

const thumbnailURLTemplate = "https://image.mux.com/%s/thumbnail.jpg"

// ErrAssetNotReady means polling exhausted its attempts without the host
// exposing a playback identifier. The asset stays in processing on the host;
// nothing has been written to the content record.
var ErrAssetNotReady = errors.New("asset has no playback id yet")

// Host is the video-host surface the workflow needs. *mux.Client implements it.
type Host interface {
	CreateDirectUpload(ctx context.Context, corsOrigin string) (*mux.DirectUpload, error)
	GetUpload(ctx context.Context, uploadID string) (*mux.DirectUpload, error)
	GetAsset(ctx context.Context, assetID string) (*mux.Asset, error)
	DeleteAsset(ctx context.Context, assetID string) error
	ResolvePlaybackID(ctx context.Context, playbackID string) (string, error)
}

// ContentStore persists resolution results into the owning content tables.
// *db.ContentStore implements it.
type ContentStore interface {
	UpdateLessonVideo(ctx context.Context, id uuid.UUID, playbackID, length string, durationMinutes int, thumbnailURL string) error
	UpdateDrillActionVideo(ctx context.Context, id uuid.UUID, playbackID string, durationMinutes int, thumbnailURL string) error
	UpdateDrillDescriptionVideo(ctx context.Context, id uuid.UUID, playbackID string, durationMinutes int) error
	UpdateDrillVideo(ctx context.Context, id uuid.UUID, playbackID, thumbnailURL string) error
	UpdateSparringVideo(ctx context.Context, id uuid.UUID, playbackID, thumbnailURL string) error
	MarkDrillVideoError(ctx context.Context, id uuid.UUID, message string) error
}

// PollConfig bounds one asset resolution loop: up to Attempts fetches with a
// fixed Interval between them. No backoff; the host's processing time does
// not reward it for clips this short.
type PollConfig struct {
	Attempts int
	Interval time.Duration
}

// UploadSession is a freshly issued direct-upload slot.
type UploadSession struct {
	UploadURL string
	UploadID  string
}

// CompleteRequest resolves a finished upload into a content record write.
// Exactly one of UploadID and AssetID must be set.
type CompleteRequest struct {
	UploadID    string
	AssetID     string
	ContentID   string
	ContentType string
	VideoType   string
}

// CompleteResult reports what was persisted.
type CompleteResult struct {
	PlaybackID      string
	DurationSeconds float64
}

// AssetDetails is the lightweight peek result for URL-import flows.
type AssetDetails struct {
	PlaybackID      string
	DurationSeconds float64
}

// VideoDetails is the playback-id lookup result.
type VideoDetails struct {
	AssetID         string
	DurationSeconds float64
	AspectRatio     string
}

// DurationLimitError is the one expected, user-facing rejection in this
// workflow: a drill clip longer than the ceiling. Handlers map it to a 400
// and the message is shown to the uploader as-is.
type DurationLimitError struct {
	DurationSeconds float64
	LimitSeconds    int
}

func (e *DurationLimitError) Error() string {
	return fmt.Sprintf("드릴 영상은 최대 %d초까지 업로드할 수 있습니다. 현재 영상 길이: %s",
		e.LimitSeconds, koreanDuration(e.DurationSeconds))
}

// ThumbnailURL derives the still-frame URL from a playback identifier. It is
// never fetched from the host; the image service materializes it on demand.
func ThumbnailURL(playbackID string) string {
	return fmt.Sprintf(thumbnailURLTemplate, playbackID)
}

func koreanDuration(seconds float64) string {
	m, s := format.MinutesSeconds(seconds)
	if m == 0 {
		return fmt.Sprintf("%d초", s)
	}
	return fmt.Sprintf("%d분 %d초", m, s)
}
