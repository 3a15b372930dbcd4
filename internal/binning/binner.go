package binning

// Binner owns one mutable partition and collapses it by one adjacent pair per
// Step.
type Binner interface {
	// Step observes the current partition, records it, then merges the
	// least informative adjacent pair.
	Step(iteration int) (IterationRecord, error)
	// Limit is the number of steps a run of at most max iterations performs.
	Limit(max int) int
	Partition() Partition
	Name() string
}
