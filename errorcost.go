package subtree

// Error cost weights used to rank candidate recoveries. The recovery
// search prefers lower total cost; these weights make skipping a whole
// tree cheaper than starting another recovery, and skipping characters
// cheaper than skipping lines.
const (
	ErrorCostPerRecovery    = 500
	ErrorCostPerMissingTree = 110
	ErrorCostPerSkippedTree = 100
	ErrorCostPerSkippedLine = 30
	ErrorCostPerSkippedChar = 1
)
