//go:build !opencv

package display

// OpenWindow reports ErrUnavailable; windows need the opencv build tag.
func OpenWindow(title string) (Display, error) {
	return nil, ErrUnavailable
}
