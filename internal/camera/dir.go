package camera

import (
	"context"
	"fmt"
	"image"
	"io"
	"sync"
	"time"

	"github.com/ironsheep/blob-alert/internal/imaging"
	"github.com/ironsheep/blob-alert/internal/log"
)

// DirSource replays the images of a directory as a frame stream.
//
// Files are played in name order, one every Settings.FrameInterval. When
// looping, decoded frames stay cached so later passes do not touch the disk.
type DirSource struct {
	mu       sync.Mutex
	paths    []string
	cache    *imaging.ImageCache
	loop     bool
	interval time.Duration
	next     int
	last     time.Time
}

// OpenDir lists the images in dir and prepares them for replay.
func OpenDir(dir string, s Settings, loop bool) (*DirSource, error) {
	paths, err := imaging.ListImages(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no images found in %s", dir)
	}

	log.Info("replaying frames", "dir", dir, "frames", len(paths), "fps", s.FPS, "loop", loop)

	return &DirSource{
		paths:    paths,
		cache:    imaging.NewImageCache(),
		loop:     loop,
		interval: s.FrameInterval(),
	}, nil
}

// Len returns the number of frames in one pass.
func (d *DirSource) Len() int {
	return len(d.paths)
}

// Next returns the next image, waiting until its slot in the replay
// schedule. Without looping it returns io.EOF after the last file.
func (d *DirSource) Next(ctx context.Context) (image.Image, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.next >= len(d.paths) {
		if !d.loop {
			return nil, io.EOF
		}
		d.next = 0
	}

	if !d.last.IsZero() {
		if err := sleep(ctx, time.Until(d.last.Add(d.interval))); err != nil {
			return nil, err
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.last = time.Now()

	path := d.paths[d.next]
	d.next++

	img, err := d.cache.Load(path)
	if err != nil {
		return nil, err
	}
	if !d.loop {
		d.cache.Evict(path)
	}
	return img, nil
}

// Close drops cached frames.
func (d *DirSource) Close() error {
	d.cache.Clear()
	return nil
}
