package metadata

// ScanKind is the classification of a video stream's frame structure.
type ScanKind int

const (
	ScanUnknown ScanKind = iota // Default; not enough samples or not a video stream.
	ScanProgressive
	ScanInterlaced
	ScanTelecined
)

// FieldOrder is the field dominance of interlaced content.
type FieldOrder int

const (
	TopFirst FieldOrder = iota
	BottomFirst
)

// ScanType is a tagged variant: FieldOrder is meaningful only when Kind is
// ScanInterlaced. The zero value is Unknown.
type ScanType struct {
	Kind       ScanKind
	FieldOrder FieldOrder
}

// Convenience constructors.
var (
	Unknown     = ScanType{Kind: ScanUnknown}
	Progressive = ScanType{Kind: ScanProgressive}
	Telecined   = ScanType{Kind: ScanTelecined}
)

// Interlaced returns the interlaced scan type with the given field order.
func Interlaced(fo FieldOrder) ScanType {
	return ScanType{Kind: ScanInterlaced, FieldOrder: fo}
}

// String returns the report text; Unknown renders as "".
func (s ScanType) String() string {
	switch s.Kind {
	case ScanProgressive:
		return "Progressive scan"
	case ScanInterlaced:
		if s.FieldOrder == BottomFirst {
			return "Interlaced scan (bottom field first)"
		}
		return "Interlaced scan (top field first)"
	case ScanTelecined:
		return "Telecined video"
	}
	return ""
}
