package metadata

import (
	"sort"

	"github.com/meur/battlebuddy/internal/services"
)

// AmmoUtilities implements services.AmmoUtilitiesManager on cached metadata
type AmmoUtilities struct {
	metadata services.GlobalMetadataManager
}

// NewAmmoUtilities creates AmmoUtilities reading from metadata
func NewAmmoUtilities(metadata services.GlobalMetadataManager) *AmmoUtilities {
	return &AmmoUtilities{metadata: metadata}
}

// CaliberDisplayName returns the display name of caliber. Unknown calibers,
// or no cached metadata at all, return caliber unchanged.
func (u *AmmoUtilities) CaliberDisplayName(caliber string) string {
	md, ok := u.metadata.GlobalMetadata()
	if !ok {
		return caliber
	}
	if a, ok := md.Ammo(caliber); ok {
		return a.DisplayName
	}
	return caliber
}

// SortCalibers returns calibers ordered by metadata index. Calibers without
// metadata go last, in lexical order.
func (u *AmmoUtilities) SortCalibers(calibers []string) []string {
	index := make(map[string]int)
	if md, ok := u.metadata.GlobalMetadata(); ok {
		for _, a := range md.AmmoMetadata {
			index[a.Caliber] = a.Index
		}
	}

	sorted := append([]string(nil), calibers...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, aKnown := index[sorted[i]]
		b, bKnown := index[sorted[j]]
		switch {
		case aKnown && bKnown:
			if a != b {
				return a < b
			}
			return sorted[i] < sorted[j]
		case aKnown != bKnown:
			return aKnown
		default:
			return sorted[i] < sorted[j]
		}
	})
	return sorted
}
