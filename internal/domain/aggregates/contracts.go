package aggregates

// WriteTxOwnership says who opens and commits the write transaction.
type WriteTxOwnership string

const (
	WriteTxOwnedByAggregate WriteTxOwnership = "aggregate_owned"
	WriteTxOwnedByCaller    WriteTxOwnership = "caller_owned"
)

// ReadPolicy says which reads an aggregate may perform inside its write transaction.
type ReadPolicy string

const (
	// ReadPolicyInvariantScoped: only reads the commit decision depends on.
	ReadPolicyInvariantScoped ReadPolicy = "invariant_scoped_reads"
)

// LockPolicy describes the row locks taken before pricing.
type LockPolicy string

const (
	LockPolicyNone LockPolicy = "none"
	// LockPolicyCostInputSorted locks each design's active cost input FOR UPDATE,
	// in ascending design-id order.
	LockPolicyCostInputSorted LockPolicy = "cost_input_for_update_sorted"
)

type Contract struct {
	Name             string
	WriteTxOwnership WriteTxOwnership
	ReadPolicy       ReadPolicy
	LockPolicy       LockPolicy
	Notes            string
}

type Aggregate interface {
	Contract() Contract
}

func (c Contract) RequiresAggregateOwnedTx() bool {
	return c.WriteTxOwnership == WriteTxOwnedByAggregate
}

// LocksRows reports whether writes take row locks, which only makes sense inside an owned tx.
func (c Contract) LocksRows() bool {
	return c.LockPolicy != "" && c.LockPolicy != LockPolicyNone
}
