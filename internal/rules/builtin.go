package rules

import "ecarows/internal/core"

// DefaultRule is the rule a new automaton starts with.
const DefaultRule = "Rule90"

func init() {
	register("Rule30", map[string]core.CellState{
		"111": 0, "110": 0, "101": 0, "100": 1,
		"011": 1, "010": 1, "001": 1, "000": 0,
	})
	register("Rule90", map[string]core.CellState{
		"111": 0, "110": 1, "101": 0, "100": 1,
		"011": 2, "010": 0, "001": 3, "000": 0,
	})
	register("Rule110", map[string]core.CellState{
		"111": 0, "110": 1, "101": 1, "100": 0,
		"011": 1, "010": 1, "001": 1, "000": 0,
	})
	register("Rule182", map[string]core.CellState{
		"111": 1, "110": 0, "101": 2, "100": 1,
		"011": 0, "010": 2, "001": 1, "000": 0,
	})
	register("Rule184", map[string]core.CellState{
		"111": 1, "110": 0, "101": 1, "100": 1,
		"011": 1, "010": 0, "001": 0, "000": 0,
	})
}
