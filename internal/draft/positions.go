package draft

import "strings"

// PositionTableVersion bumps whenever positionGroups changes, since advisor
// output for a fixed pool depends on it.
//
// Version 1 treats the secondary as one group: a drafted safety fills a CB
// need and a drafted corner fills an S need, alongside DB.
const PositionTableVersion = 1

// positionGroups partitions position tags into interchangeable groups.
// A tag missing from the table is only equivalent to itself.
var positionGroups = [][]string{
	{"OT", "OL", "G", "OG", "C", "IOL"},
	{"DT", "DL", "EDGE", "DE", "NT"},
	{"CB", "S", "DB", "FS", "SS"},
	{"LB", "ILB", "OLB", "MLB"},
	{"RB", "HB", "FB"},
	{"QB"},
	{"WR"},
	{"TE"},
	{"K", "P", "LS"},
}

var groupOf = func() map[string]int {
	m := make(map[string]int)
	for i, g := range positionGroups {
		for _, pos := range g {
			m[pos] = i
		}
	}
	return m
}()

func normalizePosition(pos string) string {
	return strings.ToUpper(strings.TrimSpace(pos))
}

// Equivalents returns every tag interchangeable with pos, pos included.
func Equivalents(pos string) []string {
	pos = normalizePosition(pos)
	i, ok := groupOf[pos]
	if !ok {
		return []string{pos}
	}
	return append([]string{}, positionGroups[i]...)
}

// SamePositionGroup reports whether a and b fill the same roster need.
func SamePositionGroup(a, b string) bool {
	a, b = normalizePosition(a), normalizePosition(b)
	if a == b {
		return true
	}
	ga, okA := groupOf[a]
	gb, okB := groupOf[b]
	return okA && okB && ga == gb
}
