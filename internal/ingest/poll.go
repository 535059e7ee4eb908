package ingest

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-retry"

	"openguard.tv/ingest/pkg/mux"
)

// awaitAsset polls the host until the asset exposes a playback identifier.
// Resolution is a one-way state machine: pending (no playback id) becomes
// ready (playback id present) or fails once the attempts are exhausted; a
// ready asset never reverts.
//
// assetID may be empty when the upload has not been bound to an asset yet;
// each attempt then re-fetches the upload until the binding appears.
// Transient fetch failures are logged and count as attempts rather than
// aborting the loop.
func (s *Service) awaitAsset(ctx context.Context, assetID, uploadID string, cfg PollConfig) (*mux.Asset, error) {
	var ready *mux.Asset

	backoff := retry.WithMaxRetries(uint64(cfg.Attempts-1), retry.NewConstant(cfg.Interval))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if assetID == "" {
			up, err := s.host.GetUpload(ctx, uploadID)
			if err != nil {
				s.log.Warn("upload lookup failed, will retry", "upload_id", uploadID, "error", err)
				return retry.RetryableError(err)
			}
			if up.AssetID == "" {
				return retry.RetryableError(ErrAssetNotReady)
			}
			assetID = up.AssetID
		}

		asset, err := s.host.GetAsset(ctx, assetID)
		if err != nil {
			s.log.Warn("asset fetch failed, will retry", "asset_id", assetID, "error", err)
			return retry.RetryableError(err)
		}
		if asset.FirstPlaybackID() == "" {
			return retry.RetryableError(ErrAssetNotReady)
		}

		ready = asset
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		ref := assetID
		if ref == "" {
			ref = "upload " + uploadID
		}
		return nil, fmt.Errorf("asset %s not ready after %d attempts: %w", ref, cfg.Attempts, ErrAssetNotReady)
	}

	return ready, nil
}
