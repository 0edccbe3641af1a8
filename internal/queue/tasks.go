package queue

const (
	TypeAudioPurge = "audio:purge"
)

// AudioPurgePayload asks the worker to delete generated audio files older
// than MaxAgeSeconds.
type AudioPurgePayload struct {
	MaxAgeSeconds int64 `json:"max_age_seconds"`
}
