package services

import (
	"slices"

	"github.com/mrlokans/booknet/internal/entities"
)

// HierarchyReport describes problems found in a set of genres.
type HierarchyReport struct {
	// Cycles lists each loop once, starting from its smallest ID.
	Cycles [][]string
	// Orphans are genres whose parent is not in the set.
	Orphans []string
}

func (r HierarchyReport) OK() bool {
	return len(r.Cycles) == 0 && len(r.Orphans) == 0
}

// AnalyzeHierarchy finds parent loops and dangling parent links.
func AnalyzeHierarchy(genres []entities.Genre) HierarchyReport {
	parents := make(map[string]string, len(genres))
	for _, g := range genres {
		parents[g.ID] = g.ParentID()
	}

	var report HierarchyReport
	for _, g := range genres {
		if p := g.ParentID(); p != "" {
			if _, ok := parents[p]; !ok {
				report.Orphans = append(report.Orphans, g.ID)
			}
		}
	}

	// 0 = unvisited, 1 = on current path, 2 = done
	state := make(map[string]int, len(genres))
	for _, g := range genres {
		if state[g.ID] != 0 {
			continue
		}

		var path []string
		current := g.ID
		for current != "" && state[current] == 0 {
			if _, ok := parents[current]; !ok {
				break
			}
			state[current] = 1
			path = append(path, current)
			current = parents[current]
		}

		if current != "" && state[current] == 1 {
			start := slices.Index(path, current)
			report.Cycles = append(report.Cycles, rotateToMin(path[start:]))
		}
		for _, id := range path {
			state[id] = 2
		}
	}

	slices.Sort(report.Orphans)
	slices.SortFunc(report.Cycles, func(a, b []string) int {
		return slices.Compare(a, b)
	})
	return report
}

func rotateToMin(cycle []string) []string {
	minIdx := 0
	for i, id := range cycle {
		if id < cycle[minIdx] {
			minIdx = i
		}
	}
	out := make([]string, 0, len(cycle))
	out = append(out, cycle[minIdx:]...)
	return append(out, cycle[:minIdx]...)
}
