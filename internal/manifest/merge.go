package manifest

import (
	"k8s.io/apimachinery/pkg/util/sets"
)

// MergeResult is a merged history plus the gap-fill records the
// supplementary history contributed.
type MergeResult struct {
	History History
	GapFill History
}

// Merge reconciles an authoritative but possibly lagging primary history with
// a faster, less complete supplementary history. Both inputs are expected
// newest first.
//
// The supplementary history is scanned from newest to oldest until a record
// matches the primary history's newest manifest. Every record before that
// match is a gap-fill candidate. If the primary head never appears, the whole
// supplementary history is gap-fill. The union is deduplicated by manifest id,
// keeping the first record seen (primary records before gap-fill records), and
// sorted newest first by ordering key.
func Merge(primary, supplementary History) MergeResult {
	gapFill := scanGapFill(primary, supplementary)

	merged := make(History, 0, len(primary)+len(gapFill))
	seen := sets.New[string]()
	for _, list := range []History{primary, gapFill} {
		for _, v := range list {
			if seen.Has(v.ManifestID) {
				continue
			}
			seen.Insert(v.ManifestID)
			merged = append(merged, v)
		}
	}
	SortDescending(merged)

	return MergeResult{History: merged, GapFill: gapFill}
}

func scanGapFill(primary, supplementary History) History {
	head, ok := primary.Head()
	var gapFill History
	for _, v := range supplementary {
		if ok && v.ManifestID == head.ManifestID {
			break
		}
		gapFill = append(gapFill, v)
	}
	return gapFill
}
