package version

import "slices"

// StepBudget caps the expansions performed by [EnumerateSteps].
const StepBudget = 2000

// EnumerateSteps guesses the releases between from and to by walking patch,
// minor and major increments breadth first. Every returned version v
// satisfies from < v <= to; the result is ascending and deduplicated. An
// absent or malformed from starts at 0.0.0. The walk stops after
// [StepBudget] expansions, so absurd ranges return a truncated list.
func EnumerateSteps(from, to string) []string {
	r := NewRange(from, to)
	if r.To.IsMax() || !r.From.Less(r.To) {
		return nil
	}

	seen := make(map[[3]int]bool)
	var found [][3]int
	queue := [][3]int{r.From.release()}

	for i := 0; i < StepBudget && len(queue) > 0; i++ {
		cur := queue[0]
		queue = queue[1:]
		if r.To.Compare(fromRelease(cur)) <= 0 {
			continue
		}
		next := [][3]int{
			{cur[0], cur[1], cur[2] + 1},
			{cur[0], cur[1] + 1, 0},
			{cur[0] + 1, 0, 0},
		}
		for _, n := range next {
			if seen[n] || r.To.Less(fromRelease(n)) {
				continue
			}
			seen[n] = true
			found = append(found, n)
			queue = append(queue, n)
		}
	}

	var out []Version
	for _, f := range found {
		if v := fromRelease(f); r.Contains(v) {
			out = append(out, v)
		}
	}
	slices.SortFunc(out, Version.Compare)

	strs := make([]string, len(out))
	for i, v := range out {
		strs[i] = v.String()
	}
	return strs
}

func fromRelease(r [3]int) Version {
	return Version{segs: []segment{{num: r[0]}, {num: r[1]}, {num: r[2]}}}
}
