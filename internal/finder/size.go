package finder

import (
	"sort"

	"github.com/harrison/dupfind/internal/models"
)

// FilterBySize keeps records whose size is at least minSize.
// It returns the kept records in input order and the number dropped.
func FilterBySize(records []models.FileRecord, minSize int64) ([]models.FileRecord, int) {
	if minSize <= 0 {
		return records, 0
	}

	kept := make([]models.FileRecord, 0, len(records))
	for _, r := range records {
		if r.Size >= minSize {
			kept = append(kept, r)
		}
	}
	return kept, len(records) - len(kept)
}

// GroupBySize groups records by exact size and drops groups with a single member.
// Groups are ordered by size ascending; members keep input order.
func GroupBySize(records []models.FileRecord) []models.SizeGroup {
	bySize := make(map[int64][]models.FileRecord)
	for _, r := range records {
		bySize[r.Size] = append(bySize[r.Size], r)
	}

	groups := make([]models.SizeGroup, 0, len(bySize))
	for size, files := range bySize {
		if len(files) < 2 {
			continue
		}
		groups = append(groups, models.SizeGroup{Size: size, Files: files})
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Size < groups[j].Size
	})

	return groups
}

// CountMembers returns the total number of files across groups
func CountMembers(groups []models.SizeGroup) int {
	total := 0
	for _, g := range groups {
		total += len(g.Files)
	}
	return total
}
