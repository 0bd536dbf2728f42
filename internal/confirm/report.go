package confirm

import (
	"sort"
)

// finishReport drains all match outcomes into the report and normalizes it
// into its deterministic final form: the missing list, the optional found
// map, and every error list are sorted so the same trees always yield the
// same Report regardless of worker completion order.
func finishReport(report *Report, outcomes []MatchOutcome, wantFound bool) {
	if wantFound {
		report.Found = make(map[string][]Location, len(outcomes))
	}

	for _, out := range outcomes {
		if out.Found {
			if wantFound {
				report.Found[out.Path] = sortedLocations(out.Locations)
			}
			continue
		}
		mf := MissingFile{Path: out.Path, Reason: out.Reason}
		if out.Err != nil {
			mf.Detail = out.Err.Error()
		}
		report.Missing = append(report.Missing, mf)
	}

	sort.Slice(report.Missing, func(i, j int) bool {
		return report.Missing[i].Path < report.Missing[j].Path
	})
	sortTreeErrors(report.WalkErrors)
	sortTreeErrors(report.DestinationErrors)

	report.AllPresent = len(report.Missing) == 0
}

// sortedLocations returns a copy of locs ordered by (root, path). The index
// owns the input slice, so it is never sorted in place.
func sortedLocations(locs []Location) []Location {
	out := append([]Location(nil), locs...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Root != out[j].Root {
			return out[i].Root < out[j].Root
		}
		return out[i].Path < out[j].Path
	})
	return out
}

func sortTreeErrors(errs []TreeError) {
	sort.Slice(errs, func(i, j int) bool {
		if errs[i].Root != errs[j].Root {
			return errs[i].Root < errs[j].Root
		}
		return errs[i].Path < errs[j].Path
	})
}
