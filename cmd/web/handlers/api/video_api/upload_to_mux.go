// package video_api provides the Mux ingestion API handler.
package video_api

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"openguard.tv/ingest/internal/config"
	"openguard.tv/ingest/internal/ingest"
)

const (
	actionCreateUpload   = "create_upload"
	actionCompleteUpload = "complete_upload"
	actionGetAssetInfo   = "get_asset_info"
	actionGetVideoInfo   = "get_video_info"
)

var validate = validator.New()

type assetRequest struct {
	Action      string `json:"action" validate:"required,oneof=create_upload complete_upload get_asset_info get_video_info"`
	FileSize    int64  `json:"fileSize"`
	UploadID    string `json:"uploadId"`
	AssetID     string `json:"assetId"`
	ContentID   string `json:"contentId"`
	ContentType string `json:"contentType"`
	VideoType   string `json:"videoType"`
	PlaybackID  string `json:"playbackId"`
}

// HandleUploadToMux dispatches the single ingestion endpoint on the request's
// action field. The env guard runs before anything else so a misconfigured
// deployment answers every action with a 500 naming the absent variables.
func HandleUploadToMux(cfg *config.Config, svc *ingest.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		if missing := cfg.MissingVars(); len(missing) > 0 {
			return c.JSON(500, map[string]any{
				"error": "missing required environment variables: " + strings.Join(missing, ", "),
			})
		}

		var req assetRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(400, map[string]any{"error": "invalid json"})
		}
		if err := validate.Struct(req); err != nil {
			return c.JSON(400, map[string]any{"error": "unknown action: " + req.Action})
		}

		ctx := c.Request().Context()

		switch req.Action {
		case actionCreateUpload:
			session, err := svc.CreateUpload(ctx, req.FileSize)
			if err != nil {
				slog.Error("create upload failed", "error", err)
				return c.JSON(500, map[string]any{"error": err.Error()})
			}
			return c.JSON(200, map[string]any{
				"success":    true,
				"uploadUrl":  session.UploadURL,
				"uploadId":   session.UploadID,
				"videoId":    session.UploadID,
				"playbackId": nil,
			})

		case actionCompleteUpload:
			_, err := svc.CompleteUpload(ctx, ingest.CompleteRequest{
				UploadID:    req.UploadID,
				AssetID:     req.AssetID,
				ContentID:   req.ContentID,
				ContentType: req.ContentType,
				VideoType:   req.VideoType,
			})
			var limitErr *ingest.DurationLimitError
			if errors.As(err, &limitErr) {
				// The one expected rejection: the message is user-facing.
				return c.JSON(400, map[string]any{"error": limitErr.Error()})
			}
			if err != nil {
				slog.Error("complete upload failed",
					"upload_id", req.UploadID,
					"asset_id", req.AssetID,
					"content_id", req.ContentID,
					"error", err)
				return c.JSON(500, map[string]any{"error": err.Error()})
			}
			return c.JSON(200, map[string]any{"success": true})

		case actionGetAssetInfo:
			info, err := svc.AssetInfo(ctx, req.AssetID)
			if err != nil {
				slog.Error("asset info failed", "asset_id", req.AssetID, "error", err)
				return c.JSON(500, map[string]any{"error": err.Error()})
			}
			return c.JSON(200, map[string]any{
				"success":    true,
				"playbackId": info.PlaybackID,
				"duration":   info.DurationSeconds,
			})

		case actionGetVideoInfo:
			info, err := svc.VideoInfo(ctx, req.PlaybackID)
			if err != nil {
				slog.Error("video info failed", "playback_id", req.PlaybackID, "error", err)
				return c.JSON(500, map[string]any{"error": err.Error()})
			}
			return c.JSON(200, map[string]any{
				"success":     true,
				"assetId":     info.AssetID,
				"duration":    info.DurationSeconds,
				"aspectRatio": info.AspectRatio,
			})

		default:
			return c.JSON(400, map[string]any{"error": "unknown action: " + req.Action})
		}
	}
}
