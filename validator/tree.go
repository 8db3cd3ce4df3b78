package validator

const (
	// TreeInterval is the number of blocks between two commitments of the name tree
	TreeInterval = 36
	// SPVLag is the number of blocks light clients may lag behind a tree commitment
	SPVLag = 12
	// MinutesPerBlock is the target block time
	MinutesPerBlock = 10
)

// TreeState describes how far an on-chain record update has propagated
type TreeState int

const (
	// TreePending means the update is not committed to the tree yet
	TreePending TreeState = iota
	// TreeCommitted means the update is committed but light clients may still lag
	TreeCommitted
	// TreeSynced means the update is served to all resolvers
	TreeSynced
)

func (s TreeState) String() string {
	switch s {
	case TreeSynced:
		return "synced"
	case TreeCommitted:
		return "committed"
	default:
		return "pending"
	}
}

// TreeStatus is the propagation state of the latest record update of a name
type TreeStatus struct {
	State TreeState
	// Elapsed is the number of blocks since the last tree commitment before the update
	Elapsed int64
	// RemainingBlocks is the number of blocks until the next state is reached, zero if synced
	RemainingBlocks int64
}

// RemainingMinutes estimates the wait until the next state is reached
func (s TreeStatus) RemainingMinutes() int64 {
	return s.RemainingBlocks * MinutesPerBlock
}

// ComputeTreeStatus derives the tree state at currentHeight for a record updated at latestUpdateHeight
func ComputeTreeStatus(currentHeight, latestUpdateHeight int64) TreeStatus {
	offset := latestUpdateHeight % TreeInterval
	if offset == 0 {
		offset = TreeInterval
	}

	anchor := latestUpdateHeight - offset
	elapsed := currentHeight - anchor

	switch {
	case elapsed > TreeInterval+SPVLag:
		return TreeStatus{State: TreeSynced, Elapsed: elapsed}
	case elapsed > TreeInterval:
		return TreeStatus{State: TreeCommitted, Elapsed: elapsed, RemainingBlocks: SPVLag - (elapsed - TreeInterval)}
	default:
		return TreeStatus{State: TreePending, Elapsed: elapsed, RemainingBlocks: TreeInterval - elapsed}
	}
}
