package lumacodec

import "fmt"

// ConfigurationError reports a configuration value the codec refuses to
// proceed with: an invalid bitsPerBlock, or a frame size that is not a
// multiple of 8. Detected at construction, per spec.md §7.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("lumacodec: configuration error: %s", e.Reason)
}

// BoundsError reports a caller-supplied buffer of the wrong length: the
// data passed to EmbedDataIntoFrame must be exactly BytesPerFrame() long.
// Never a partial write.
type BoundsError struct {
	Want, Got int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("lumacodec: bounds error: want %d bytes, got %d", e.Want, e.Got)
}
