package revolve

// checkpointStore is the slot bookkeeping shared by every scheduler in
// a Revolve instance. ch maps slot index to the step stored there;
// ordCh is a permutation of slot indices maintained by the online
// schemes; lvl and disp carry the moin scheme's level counters and
// dispensability flags.
//
// The arrays are one entry longer than snaps: the r=3 ordering seeds
// ordCh[0] one past the last slot, and the extra entry absorbs it.
type checkpointStore struct {
	snaps int

	ch    []int
	ordCh []int
	lvl   []int
	disp  []bool

	numWrites []int
	numReads  []int

	advances  int
	takeshots int
	commands  int
}

func newCheckpointStore(snaps int) *checkpointStore {
	c := &checkpointStore{
		snaps:     snaps,
		ch:        make([]int, snaps+1),
		ordCh:     make([]int, snaps+1),
		lvl:       make([]int, snaps+1),
		disp:      make([]bool, snaps+1),
		numWrites: make([]int, snaps+1),
		numReads:  make([]int, snaps+1),
	}
	for i := range c.ordCh {
		c.ordCh[i] = i
	}
	return c
}

func (c *checkpointStore) resetCounters() {
	c.advances = 0
	c.takeshots = 0
	c.commands = 0
}
