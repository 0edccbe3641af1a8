// Package audio wraps raw PCM speech audio in RIFF/WAVE containers and
// parses the audio MIME type convention used by generative TTS providers
// (e.g. "audio/L16;rate=24000").
package audio

import (
	"encoding/binary"
	"strconv"
	"strings"
)

// Defaults applied when a MIME type carries no usable parameters.
const (
	DefaultBitsPerSample = 16
	DefaultSampleRate    = 24000
)

// WAVHeaderSize is the fixed size of the RIFF/WAVE header emitted by EncodeWAV.
const WAVHeaderSize = 44

// MIMEParams holds the PCM parameters parsed from an audio MIME type.
type MIMEParams struct {
	BitsPerSample int
	SampleRate    int
}

// ParseMIMEParams extracts bits-per-sample and sample rate from a MIME type
// string of the form "audio/L<bits>;rate=<hz>". Missing or malformed
// parameters fall back to 16-bit / 24000 Hz; individual parse failures never
// abort the rest of the parse.
func ParseMIMEParams(mimeType string) MIMEParams {
	p := MIMEParams{
		BitsPerSample: DefaultBitsPerSample,
		SampleRate:    DefaultSampleRate,
	}
	for _, part := range strings.Split(mimeType, ";") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(strings.ToLower(part), "rate=") {
			if v, err := strconv.Atoi(part[strings.Index(part, "=")+1:]); err == nil {
				p.SampleRate = v
			}
		}
		// The raw-PCM naming convention ("audio/L16") is case-sensitive.
		if strings.HasPrefix(part, "audio/L") {
			if v, err := strconv.Atoi(part[len("audio/L"):]); err == nil {
				p.BitsPerSample = v
			}
		}
	}
	return p
}

// EncodeWAV wraps a mono PCM payload in a 44-byte RIFF/WAVE header. The
// payload bytes are appended verbatim; the result is always exactly
// 44+len(payload) bytes. Bit depths that are not a multiple of 8 truncate in
// the bytes-per-sample division, matching the container the upstream
// providers expect callers to handle.
func EncodeWAV(payload []byte, bitsPerSample, sampleRate int) []byte {
	const numChannels = 1
	bytesPerSample := bitsPerSample / 8
	blockAlign := numChannels * bytesPerSample
	byteRate := sampleRate * blockAlign
	dataSize := len(payload)

	out := make([]byte, WAVHeaderSize+dataSize)
	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(36+dataSize))
	copy(out[8:12], "WAVE")

	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16) // fmt sub-chunk size
	binary.LittleEndian.PutUint16(out[20:22], 1)  // PCM format tag
	binary.LittleEndian.PutUint16(out[22:24], numChannels)
	binary.LittleEndian.PutUint32(out[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:36], uint16(bitsPerSample))

	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(dataSize))
	copy(out[WAVHeaderSize:], payload)
	return out
}

// IsWAV reports whether the MIME type already names a WAV container.
func IsWAV(mimeType string) bool {
	t := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(t, ";"); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	switch t {
	case "audio/wav", "audio/x-wav", "audio/wave":
		return true
	}
	return false
}

// ExtensionForMIME maps a reported audio MIME type to a file extension.
// Returns "" when no extension can be inferred; callers default to ".wav".
func ExtensionForMIME(mimeType string) string {
	t := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(t, ";"); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	switch t {
	case "audio/wav", "audio/x-wav", "audio/wave":
		return ".wav"
	case "audio/mpeg", "audio/mp3":
		return ".mp3"
	case "audio/ogg":
		return ".ogg"
	case "audio/webm":
		return ".webm"
	case "audio/flac":
		return ".flac"
	case "audio/aac":
		return ".aac"
	case "audio/mp4", "audio/x-m4a":
		return ".m4a"
	}
	return ""
}
