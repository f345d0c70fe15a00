package monitor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"sync"
	"time"

	"github.com/ironsheep/blob-alert/internal/buzzer"
	"github.com/ironsheep/blob-alert/internal/camera"
	"github.com/ironsheep/blob-alert/internal/detection"
	"github.com/ironsheep/blob-alert/internal/display"
	"github.com/ironsheep/blob-alert/internal/log"
	"github.com/ironsheep/blob-alert/internal/snapshot"
)

// ErrTooManyErrors is returned by Run when too many frames in a row failed.
var ErrTooManyErrors = errors.New("too many consecutive frame errors")

// Options wires a Monitor. Source, Detector and Output are required.
type Options struct {
	Source   camera.Source
	Detector *detection.Detector
	Output   buzzer.Output

	// Display defaults to a headless display.
	Display display.Display

	// MaskDisplay, when set, shows the colour-masked frame. The detector
	// must be configured with KeepMasked.
	MaskDisplay display.Display

	// Snapshots is optional.
	Snapshots *snapshot.Saver

	// Shutdown is written to Output once when Run returns.
	Shutdown buzzer.ShutdownState

	// MaxConsecutiveErrors ends the run after this many failed frames in a
	// row. Zero selects 30.
	MaxConsecutiveErrors int

	// StatsInterval is the period of the progress log line. Zero disables it.
	StatsInterval time.Duration
}

// Stats summarises a run.
type Stats struct {
	Frames      int64         `json:"frames"`
	AlertFrames int64         `json:"alert_frames"`
	Errors      int64         `json:"errors"`
	Snapshots   int64         `json:"snapshots"`
	Elapsed     time.Duration `json:"elapsed"`
	FPS         float64       `json:"fps"`
}

// Monitor runs the capture loop.
type Monitor struct {
	opts Options

	mu        sync.Mutex
	stats     Stats
	startTime time.Time
}

// New validates opts and creates a Monitor.
func New(opts Options) (*Monitor, error) {
	if opts.Source == nil {
		return nil, errors.New("monitor: frame source is required")
	}
	if opts.Detector == nil {
		return nil, errors.New("monitor: detector is required")
	}
	if opts.Output == nil {
		return nil, errors.New("monitor: output is required")
	}
	if opts.Display == nil {
		opts.Display = &display.Headless{}
	}
	if opts.Shutdown == "" {
		opts.Shutdown = buzzer.ShutdownOff
	}
	if opts.MaxConsecutiveErrors <= 0 {
		opts.MaxConsecutiveErrors = 30
	}
	return &Monitor{opts: opts}, nil
}

// Run processes frames until the quit key, cancellation of ctx, or the end
// of the source. See the package documentation for the stop conditions.
func (m *Monitor) Run(ctx context.Context) (err error) {
	m.mu.Lock()
	m.startTime = time.Now()
	m.mu.Unlock()

	log.Info("monitor started",
		"shutdown_state", m.opts.Shutdown,
		"max_consecutive_errors", m.opts.MaxConsecutiveErrors)

	defer func() {
		if serr := m.opts.Shutdown.Apply(m.opts.Output); serr != nil {
			log.Error("failed to apply shutdown state", "state", m.opts.Shutdown, "error", serr)
			if err == nil {
				err = fmt.Errorf("failed to apply shutdown state: %w", serr)
			}
		}
		m.logStats("monitor stopped")
	}()

	lastStats := time.Now()
	consecutive := 0

	for {
		if ctx.Err() != nil {
			log.Info("monitor cancelled")
			return nil
		}

		frame, err := m.opts.Source.Next(ctx)
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				log.Info("end of input")
				return nil
			case ctx.Err() != nil:
				log.Info("monitor cancelled")
				return nil
			}
		} else {
			var quit bool
			quit, err = m.process(frame)
			if quit {
				log.Info("quit key pressed")
				return nil
			}
		}

		if err != nil {
			consecutive++
			m.mu.Lock()
			m.stats.Errors++
			m.mu.Unlock()

			log.Warn("frame skipped", "error", err, "consecutive", consecutive)
			if consecutive >= m.opts.MaxConsecutiveErrors {
				return fmt.Errorf("%w: %d in a row, last: %v", ErrTooManyErrors, consecutive, err)
			}
		} else {
			consecutive = 0
		}

		if m.opts.StatsInterval > 0 && time.Since(lastStats) >= m.opts.StatsInterval {
			m.logStats("monitor progress")
			lastStats = time.Now()
		}
	}
}

// process runs one frame through the pipeline. quit reports the quit key.
func (m *Monitor) process(frame image.Image) (quit bool, err error) {
	res, err := m.opts.Detector.Detect(frame)
	if err != nil {
		return false, fmt.Errorf("failed to detect: %w", err)
	}

	if err := m.opts.Output.Set(res.Alert); err != nil {
		return false, fmt.Errorf("failed to write alert output: %w", err)
	}

	m.mu.Lock()
	m.stats.Frames++
	if res.Alert {
		m.stats.AlertFrames++
	}
	frameNo := m.stats.Frames
	m.mu.Unlock()

	log.Debug("frame",
		"frame", frameNo,
		"alert", res.Alert,
		"alert_y", res.AlertY,
		"blobs", len(res.Blobs),
		"contours", res.Contours)

	if m.opts.Snapshots != nil {
		path, err := m.opts.Snapshots.Observe(res)
		if err != nil {
			log.Warn("snapshot failed", "frame", frameNo, "error", err)
		} else if path != "" {
			m.mu.Lock()
			m.stats.Snapshots++
			m.mu.Unlock()
		}
	}

	if err := m.opts.Display.Show(res.Annotated); err != nil {
		log.Warn("display failed", "frame", frameNo, "error", err)
	}
	if m.opts.MaskDisplay != nil && res.Masked != nil {
		if err := m.opts.MaskDisplay.Show(res.Masked); err != nil {
			log.Warn("mask display failed", "frame", frameNo, "error", err)
		}
	}

	// HighGUI windows share one key queue, so a key may surface in either.
	quit = pressedQuit(m.opts.Display)
	if m.opts.MaskDisplay != nil && pressedQuit(m.opts.MaskDisplay) {
		quit = true
	}
	return quit, nil
}

func pressedQuit(d display.Display) bool {
	key, ok := d.PollKey()
	return ok && key == display.QuitKey
}

// Stats returns the counters so far.
func (m *Monitor) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.stats
	if !m.startTime.IsZero() {
		s.Elapsed = time.Since(m.startTime)
		if secs := s.Elapsed.Seconds(); secs > 0 {
			s.FPS = float64(s.Frames) / secs
		}
	}
	return s
}

func (m *Monitor) logStats(msg string) {
	s := m.Stats()
	log.Info(msg,
		"frames", s.Frames,
		"alert_frames", s.AlertFrames,
		"errors", s.Errors,
		"snapshots", s.Snapshots,
		"elapsed", s.Elapsed.Round(time.Millisecond),
		"fps", fmt.Sprintf("%.1f", s.FPS))
}
