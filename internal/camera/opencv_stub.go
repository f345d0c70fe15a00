//go:build !opencv

package camera

import "context"

// OpenDevice reports ErrUnavailable; live capture needs the opencv build tag.
func OpenDevice(ctx context.Context, s Settings) (Source, error) {
	return nil, ErrUnavailable
}
