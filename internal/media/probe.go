package media

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"
)

var ErrUnsupportedTrack = errors.New("media: unsupported track format")

// TrackInfo describes a decodable audio file.
type TrackInfo struct {
	Path     string
	Format   beep.Format
	Duration time.Duration
}

// Clock renders the duration as m:ss.
func (t TrackInfo) Clock() string {
	secs := int(t.Duration.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// OpenTrack decodes the file at path by extension. The caller closes the
// returned streamer.
func OpenTrack(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("media: open track: %w", err)
	}

	var (
		s      beep.StreamSeekCloser
		format beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		s, format, err = mp3.Decode(f)
	case ".wav":
		s, format, err = wav.Decode(f)
	default:
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("%w: %s", ErrUnsupportedTrack, filepath.Ext(path))
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("media: decode track %s: %w", path, err)
	}
	return s, format, nil
}

// ProbeTrack decodes the track header and reports its format and length.
func ProbeTrack(path string) (TrackInfo, error) {
	s, format, err := OpenTrack(path)
	if err != nil {
		return TrackInfo{}, err
	}
	defer s.Close()

	return TrackInfo{
		Path:     path,
		Format:   format,
		Duration: format.SampleRate.D(s.Len()),
	}, nil
}
