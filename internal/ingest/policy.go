package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"openguard.tv/ingest/pkg/mux"
)

// rejectOverlongDrill tears down a drill upload that exceeds the duration
// ceiling. The two cleanup steps are independent: a failed host-side delete
// never blocks the error marker write, and neither blocks the rejection
// reaching the caller.
func (s *Service) rejectOverlongDrill(ctx context.Context, contentID uuid.UUID, asset *mux.Asset) error {
	s.log.Info("rejecting drill over duration limit",
		"asset_id", asset.ID,
		"content_id", contentID,
		"duration_seconds", asset.Duration,
		"limit_seconds", DrillMaxDurationSeconds)

	if err := s.host.DeleteAsset(ctx, asset.ID); err != nil {
		s.log.Warn("failed to delete rejected asset", "asset_id", asset.ID, "error", err)
	}

	marker := fmt.Sprintf("ERROR: 영상 길이 %s (최대 %d초)",
		koreanDuration(asset.Duration), DrillMaxDurationSeconds)
	if err := s.store.MarkDrillVideoError(ctx, contentID, marker); err != nil {
		s.log.Error("failed to record drill rejection", "content_id", contentID, "error", err)
	}

	return &DurationLimitError{
		DurationSeconds: asset.Duration,
		LimitSeconds:    DrillMaxDurationSeconds,
	}
}
