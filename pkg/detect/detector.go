// Package detect provides object detection for wall obstruction analysis.
// Detected furniture, appliances, and people are subtracted from gross
// wall area by the estimator.
package detect

// Box is a pixel-space bounding box on the analyzed frame.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Area returns the box area in square pixels.
func (b Box) Area() float64 {
	return b.W * b.H
}

// Object represents a detected object.
type Object struct {
	Class string  `json:"class"`
	Score float64 `json:"score"`
	Box   Box     `json:"box"`
}

// Detector is the interface for object detection backends.
type Detector interface {
	// Detect finds objects in the JPEG image.
	Detect(jpeg []byte) ([]Object, error)

	// Close releases resources.
	Close() error
}

// Config holds detector configuration.
type Config struct {
	ModelPath        string  // Path to ONNX model
	ConfidenceThresh float32 // Minimum confidence (default 0.5)
	NMSThresh        float32 // Non-maximum suppression threshold
	InputWidth       int     // Model input width
	InputHeight      int     // Model input height
}

// DefaultConfig returns production defaults for YOLOv8n.
func DefaultConfig() Config {
	return Config{
		ModelPath:        "models/yolov8n.onnx",
		ConfidenceThresh: 0.5,
		NMSThresh:        0.45,
		InputWidth:       640,
		InputHeight:      640,
	}
}

// obstructionClasses is the allow-list of classes that count as wall
// obstructions: furniture, appliances, and people. Anything else a
// detector reports (pets, cups, books) does not reduce paintable area.
var obstructionClasses = map[string]bool{
	"person":       true,
	"bench":        true,
	"chair":        true,
	"couch":        true,
	"potted plant": true,
	"bed":          true,
	"dining table": true,
	"toilet":       true,
	"tv":           true,
	"laptop":       true,
	"microwave":    true,
	"oven":         true,
	"toaster":      true,
	"sink":         true,
	"refrigerator": true,
	"clock":        true,
	"vase":         true,
}

// IsObstruction returns true if the class counts as a wall obstruction.
func IsObstruction(class string) bool {
	return obstructionClasses[class]
}

// FilterObstructions keeps detections on the obstruction allow-list with
// a score strictly above the threshold.
func FilterObstructions(objects []Object, scoreThresh float64) []Object {
	var out []Object
	for _, obj := range objects {
		if obj.Score > scoreThresh && IsObstruction(obj.Class) {
			out = append(out, obj)
		}
	}
	return out
}
