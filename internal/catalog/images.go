package catalog

import (
	dbtypes "github.com/angelmondragon/catalog-backend/pkg/db/types"
)

// ImageSlotCount is the number of image slots the admin form exposes.
const ImageSlotCount = 4

// CollectImageSlots compacts freshly uploaded slot images into an ordered
// list for a new product. Empty slots are skipped.
func CollectImageSlots(uploads map[int]string) dbtypes.StringArray {
	var images dbtypes.StringArray
	for slot := 0; slot < ImageSlotCount; slot++ {
		if image, ok := uploads[slot]; ok && image != "" {
			images = append(images, image)
		}
	}
	return images
}

// MergeImageSlots overlays uploaded slot images onto the existing list. A
// new upload replaces its slot, untouched slots keep their prior entry, and
// empty slots are dropped from the final list.
func MergeImageSlots(existing []string, uploads map[int]string) dbtypes.StringArray {
	size := ImageSlotCount
	if len(existing) > size {
		size = len(existing)
	}
	merged := make([]string, size)
	copy(merged, existing)
	for slot := 0; slot < ImageSlotCount; slot++ {
		if image, ok := uploads[slot]; ok && image != "" {
			merged[slot] = image
		}
	}

	var images dbtypes.StringArray
	for _, image := range merged {
		if image != "" {
			images = append(images, image)
		}
	}
	return images
}
