package options

// Layout selection for ingestion. AUTO picks grayscale for 1-channel
// sources and interleaved (NHWC) for 3-channel sources.
const (
	LAYOUT_AUTO int32 = iota
	LAYOUT_GRAYSCALE
	LAYOUT_NHWC
	LAYOUT_NCHW
)

// IngestOptions controls how a foreign pixel buffer is loaded into a
// descriptor.
type IngestOptions struct {
	// Normalize divides each 8-bit sample by 255 so the stored elements lie
	// in the unit interval. Only meaningful for float element types.
	Normalize bool

	Layout int32

	// Shape overrides the derived target shape. Must match the layout's
	// rank and the source's total sample count.
	Shape []int64
}

func NewIngestOptions(options *IngestOptions) *IngestOptions {

	opt := &IngestOptions{}
	if options != nil {
		opt.Normalize = options.Normalize
		opt.Layout = options.Layout
		opt.Shape = options.Shape
	}
	return opt
}

// ExportOptions controls the mirror direction, descriptor back to pixel
// buffer. A nil ExportOptions un-normalizes exactly when the descriptor was
// ingested normalized.
type ExportOptions struct {
	Denormalize bool
}

func NewExportOptions(options *ExportOptions) *ExportOptions {

	opt := &ExportOptions{}
	if options != nil {
		opt.Denormalize = options.Denormalize
	}
	return opt
}
