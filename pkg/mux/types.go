package mux

// DirectUpload is a host-issued one-time upload slot. AssetID stays empty
// until the host binds the uploaded bytes to a transcoding asset.
type DirectUpload struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	Status  string `json:"status"`
	AssetID string `json:"asset_id"`
}

type PlaybackID struct {
	ID     string `json:"id"`
	Policy string `json:"policy"`
}

// Asset is the host-side transcoding job for one uploaded video.
type Asset struct {
	ID          string       `json:"id"`
	Status      string       `json:"status"`
	Duration    float64      `json:"duration"`
	AspectRatio string       `json:"aspect_ratio"`
	PlaybackIDs []PlaybackID `json:"playback_ids"`
}

// FirstPlaybackID returns the primary playback identifier, or "" while the
// asset is still processing.
func (a *Asset) FirstPlaybackID() string {
	if len(a.PlaybackIDs) == 0 {
		return ""
	}
	return a.PlaybackIDs[0].ID
}

type uploadEnvelope struct {
	Data DirectUpload `json:"data"`
}

type assetEnvelope struct {
	Data Asset `json:"data"`
}

type playbackLookupEnvelope struct {
	Data struct {
		ID     string `json:"id"`
		Object struct {
			Type string `json:"type"`
			ID   string `json:"id"`
		} `json:"object"`
	} `json:"data"`
}
