package services

import (
	"sort"
	"strconv"
	"strings"

	"reserva-backend/models"
)

// Assignment is the outcome of a successful allocation: one table, or a
// joined set of tables sharing a room.
type Assignment struct {
	TableIDs []string
	Tables   []models.Table
}

// Capacity is the summed seat count of the assignment.
func (a Assignment) Capacity() int {
	total := 0
	for _, t := range a.Tables {
		total += t.Capacity
	}
	return total
}

// compareTableNumbers orders table numbers numerically when both parse as
// integers, falling back to a plain string compare. Keeps "2" before "10".
func compareTableNumbers(a, b string) int {
	ai, aErr := strconv.Atoi(strings.TrimSpace(a))
	bi, bErr := strconv.Atoi(strings.TrimSpace(b))
	if aErr == nil && bErr == nil {
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}

func sortByNumber(tables []models.Table) {
	sort.SliceStable(tables, func(i, j int) bool {
		return compareTableNumbers(tables[i].Number, tables[j].Number) < 0
	})
}

// Allocate picks the table binding for a party of guests. The occupied set
// holds ids of tables already bound for the requested interval; the caller
// derives it from the ledger. Selection is deterministic:
//
//  1. Best-fit single table: minimal capacity >= guests, ties broken by
//     lowest table number.
//  2. Joined fallback: the smallest set of mutually can_join tables within
//     one room whose summed capacity covers the party; ties broken by
//     smaller summed capacity, then lexicographically lowest numbers.
//
// Returns ErrNoTableAvailable when neither exists.
func Allocate(tables []models.Table, occupied map[string]bool, guests int) (Assignment, error) {
	free := make([]models.Table, 0, len(tables))
	for _, t := range tables {
		if !occupied[t.ID] {
			free = append(free, t)
		}
	}
	sortByNumber(free)

	// Step 1: best-fit single.
	var best *models.Table
	for i := range free {
		t := &free[i]
		if t.Capacity < guests {
			continue
		}
		if best == nil || t.Capacity < best.Capacity {
			best = t
		}
	}
	if best != nil {
		return Assignment{TableIDs: []string{best.ID}, Tables: []models.Table{*best}}, nil
	}

	// Step 2: joined combinations per room.
	byRoom := map[string][]models.Table{}
	for _, t := range free {
		if t.CanJoin {
			byRoom[t.RoomID] = append(byRoom[t.RoomID], t)
		}
	}

	roomIDs := make([]string, 0, len(byRoom))
	for id := range byRoom {
		roomIDs = append(roomIDs, id)
	}
	sort.Strings(roomIDs)

	var winner []models.Table
	for _, id := range roomIDs {
		if combo := bestCombination(byRoom[id], guests); combo != nil {
			if winner == nil || betterCombination(combo, winner) {
				winner = combo
			}
		}
	}
	if winner == nil {
		return Assignment{}, ErrNoTableAvailable
	}

	ids := make([]string, len(winner))
	for i, t := range winner {
		ids[i] = t.ID
	}
	return Assignment{TableIDs: ids, Tables: winner}, nil
}

// bestCombination searches subsets of candidates (already sorted by number)
// for the best set of at least two tables covering guests. Rooms hold a
// handful of tables, so an exhaustive walk is fine.
func bestCombination(candidates []models.Table, guests int) []models.Table {
	var best []models.Table

	var walk func(start int, current []models.Table, sum int)
	walk = func(start int, current []models.Table, sum int) {
		if sum >= guests && len(current) >= 2 {
			// Adding more tables can only worsen cardinality and
			// capacity, so evaluate and stop extending this branch.
			if best == nil || betterCombination(current, best) {
				best = append([]models.Table(nil), current...)
			}
			return
		}
		for i := start; i < len(candidates); i++ {
			walk(i+1, append(current, candidates[i]), sum+candidates[i].Capacity)
		}
	}
	walk(0, nil, 0)
	return best
}

// betterCombination is the deterministic combination order: fewer tables,
// then smaller summed capacity, then lexicographically lower numbers.
func betterCombination(a, b []models.Table) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	sumA, sumB := 0, 0
	for _, t := range a {
		sumA += t.Capacity
	}
	for _, t := range b {
		sumB += t.Capacity
	}
	if sumA != sumB {
		return sumA < sumB
	}
	for i := range a {
		if c := compareTableNumbers(a[i].Number, b[i].Number); c != 0 {
			return c < 0
		}
	}
	return false
}
