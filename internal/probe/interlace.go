package probe

import "strings"

// FieldOrderHint interprets the container-declared field_order of a video
// stream. known is false when the field is missing or "unknown"; the
// declaration is advisory only and is never used in place of frame flags.
func (s StreamRecord) FieldOrderHint() (interlaced, topFirst, known bool) {
	fo, ok := s.FieldOrder.Get()
	if !ok {
		return false, false, false
	}
	switch strings.ToLower(fo) {
	case "progressive":
		return false, false, true
	case "tt", "tb":
		return true, true, true
	case "bb", "bt":
		return true, false, true
	}
	return false, false, false
}
