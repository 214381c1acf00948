package geo

import "strings"

// FilterKinds keeps samples whose kind appears in kinds. An empty kinds
// string keeps everything.
func FilterKinds(samples []Sample, kinds string) []Sample {
	if kinds == "" {
		return samples
	}

	out := make([]Sample, 0, len(samples))
	for _, s := range samples {
		if s.Kind != 0 && strings.ContainsRune(kinds, s.Kind) {
			out = append(out, s)
		}
	}

	return out
}
