package greenhouse

// EventKind identifies what changed in the store.
type EventKind int

const (
	CategoryAdded EventKind = iota
	CategoryRemoved
	VariantAdded
	VariantRemoved
	VariantReplaced
	ThresholdsChanged
	DensityChanged
	PlacementChanged
)

// String returns the event kind name for logging.
func (k EventKind) String() string {
	switch k {
	case CategoryAdded:
		return "category_added"
	case CategoryRemoved:
		return "category_removed"
	case VariantAdded:
		return "variant_added"
	case VariantRemoved:
		return "variant_removed"
	case VariantReplaced:
		return "variant_replaced"
	case ThresholdsChanged:
		return "thresholds_changed"
	case DensityChanged:
		return "density_changed"
	case PlacementChanged:
		return "placement_changed"
	}
	return "unknown"
}

// Event is a discrete configuration change notification. VariantIndex is
// meaningful only for the variant event kinds.
type Event struct {
	Kind         EventKind
	Category     string
	VariantIndex int
}
