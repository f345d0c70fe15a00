// Package snapshot saves annotated frames when an alert starts.
package snapshot

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/google/uuid"

	"github.com/ironsheep/blob-alert/internal/detection"
	"github.com/ironsheep/blob-alert/internal/imaging"
	"github.com/ironsheep/blob-alert/internal/log"
)

// Options configures a Saver.
type Options struct {
	// Dir receives the PNG files. It is created if missing.
	Dir string
	// Crop saves only the first alerting blob, padded by Margin pixels.
	Crop   bool
	Margin int
}

// Saver writes one PNG per alert episode, on the frame where the alert
// state goes from false to true. Files are named <run-id>-<seq>.png with a
// fresh run id per Saver so that runs never overwrite each other.
type Saver struct {
	mu    sync.Mutex
	opts  Options
	runID string
	seq   int
	prev  bool
}

// New creates the snapshot directory and a Saver writing into it.
func New(opts Options) (*Saver, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("snapshot directory is required")
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	s := &Saver{opts: opts, runID: uuid.New().String()}
	log.Info("saving alert snapshots", "dir", opts.Dir, "run", s.runID, "crop", opts.Crop)
	return s, nil
}

// RunID returns the identifier shared by this Saver's files.
func (s *Saver) RunID() string {
	return s.runID
}

// Observe feeds one frame result. On a rising alert edge it saves the
// annotated frame and returns the file path; otherwise it returns "".
func (s *Saver) Observe(res *detection.Result) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rising := res.Alert && !s.prev
	s.prev = res.Alert
	if !rising || res.Annotated == nil {
		return "", nil
	}

	img, err := s.frame(res)
	if err != nil {
		return "", err
	}

	s.seq++
	path := filepath.Join(s.opts.Dir, fmt.Sprintf("%s-%04d.png", s.runID, s.seq))
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return "", fmt.Errorf("failed to save snapshot: %w", err)
	}

	log.Info("alert snapshot saved", "path", path)
	return path, nil
}

// frame returns the image to save: the whole annotated frame, or the first
// alerting blob when cropping.
func (s *Saver) frame(res *detection.Result) (image.Image, error) {
	if !s.opts.Crop {
		return res.Annotated, nil
	}
	for _, b := range res.Blobs {
		if !b.Alert {
			continue
		}
		r := imaging.Pad(b.Rect.Image(), s.opts.Margin, res.Annotated.Bounds())
		return imaging.Crop(res.Annotated, r, 1)
	}
	return res.Annotated, nil
}
