package skills

import (
	"math"
	"strings"
)

// Score returns |A∩B| / max(|A|,|B|) over the lowercased, deduplicated sets.
// It is 0 when either side is empty.
func Score(candidate, job []string) float64 {
	a := lowerSet(candidate)
	b := lowerSet(job)
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	common := 0
	for k := range a {
		if _, ok := b[k]; ok {
			common++
		}
	}
	return float64(common) / float64(max(len(a), len(b)))
}

// Percentage renders a score as a whole percent.
func Percentage(score float64) int {
	return int(math.Round(score * 100))
}

// Compare splits the job's skills into those the candidate has and those it
// lacks. Both lists keep the job's spelling and order.
func Compare(candidate, job []string) (matching, missing []string) {
	have := lowerSet(candidate)
	seen := make(map[string]struct{}, len(job))
	matching = []string{}
	missing = []string{}
	for _, s := range job {
		key := strings.ToLower(strings.TrimSpace(s))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := have[key]; ok {
			matching = append(matching, s)
		} else {
			missing = append(missing, s)
		}
	}
	return matching, missing
}

func lowerSet(skills []string) map[string]struct{} {
	set := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		key := strings.ToLower(strings.TrimSpace(s))
		if key == "" {
			continue
		}
		set[key] = struct{}{}
	}
	return set
}
