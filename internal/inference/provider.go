// Package inference bridges the Jikimi decision core to an external
// image-classification model. The model itself is an opaque collaborator; the
// core only ever sees ordered label/probability pairs.
package inference

import (
	"gocv.io/x/gocv"

	"github.com/minsukim/jikimi/internal/decision"
)

// Provider defines the interface for per-frame classification backends.
type Provider interface {
	// Classify runs the model against a video frame and returns one
	// prediction per known class. An empty slice is a valid result.
	Classify(frame *gocv.Mat) ([]decision.Prediction, error)

	// Close releases any resources held by the provider.
	Close() error
}

// Config holds configuration options for classification.
type Config struct {
	// ModelPath points at the pretrained model file handed to the
	// classifier service. Empty means the service's bundled default.
	ModelPath string

	// TopK limits how many classes the service reports per frame.
	// Zero means all classes.
	TopK int
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		TopK: 0,
	}
}
