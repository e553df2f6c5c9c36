package revolve

import "log/slog"

// onlineR3 continues an online forward sweep past the r=2 range. It is
// quasi-optimal for step counts up to (snaps+3)*(snaps+2)*(snaps+1)/6
// and returns ActionTerminate past that, asking the façade to escalate.
type onlineR3 struct {
	snaps int
	check int
	capo  int
	info  int

	// forward is the number of steps the next advance covers; indNow
	// indexes the next mandatory checkpoint in ch3; cpIdx names the
	// replaceable position within the slot ordering.
	forward int
	indNow  int
	cpIdx   int

	// ch3 holds the final checkpoint distribution for r=3 (these steps
	// must end up checkpointed); tdiff the current step differences
	// between adjacent checkpoints; tdiffEnd the target differences.
	ch3      []int
	tdiff    []int
	tdiffEnd []int
	cpFest   []bool

	cp  *checkpointStore
	log *slog.Logger
}

func newOnlineR3(snaps int, cp *checkpointStore, log *slog.Logger) *onlineR3 {
	s := &onlineR3{
		snaps:    snaps,
		check:    1,
		capo:     (snaps+2)*(snaps+1)/2 - 1,
		ch3:      make([]int, snaps+1),
		tdiff:    make([]int, snaps+1),
		tdiffEnd: make([]int, snaps+1),
		cpFest:   make([]bool, snaps+1),
		cp:       cp,
		log:      log,
	}
	for i := 0; i < snaps; i++ {
		s.tdiff[i] = i + 3
		cp.ordCh[i] = snaps - i
	}
	s.tdiffEnd[0] = 6
	for i := 1; i < snaps; i++ {
		s.tdiffEnd[i] = s.tdiffEnd[i-1] + 3 + i
	}
	s.ch3[0] = 0
	for i := 1; i < snaps; i++ {
		s.ch3[i] = s.ch3[i-1] + s.tdiffEnd[snaps-i-1]
	}
	return s
}

func (s *onlineR3) getCapo() int  { return s.capo }
func (s *onlineR3) getFine() int  { return -1 }
func (s *onlineR3) getCheck() int { return s.check }
func (s *onlineR3) getInfo() int  { return s.info }
func (s *onlineR3) setCapo(c int) { s.capo = c }
func (s *onlineR3) setFine(int)   {}

func (s *onlineR3) revolve() Action {
	cp := s.cp
	cp.commands++
	n := 1
	if s.capo == (s.snaps+2)*(s.snaps+1)/2-1 {
		// Entry from r=2.
		s.capo++
		s.forward = 3
		s.indNow = 1
		s.cpIdx = 0
		cp.advances += 3
		return ActionAdvance
	}
	if s.capo == cp.ch[s.check] {
		if s.indNow == s.snaps {
			s.forward = 1
		} else if s.capo == s.ch3[s.indNow]-1 {
			s.forward = 1
		}
		s.capo += s.forward
		cp.advances += s.forward
		return ActionAdvance
	}
	if s.capo <= (s.snaps+3)*(s.snaps+2)*(s.snaps+1)/6-4 {
		if s.cpIdx == 0 && s.forward == 1 {
			s.cpIdx = 0
		} else {
			s.cpIdx = s.chooseCP(n)
			for s.cpFest[cp.ordCh[s.snaps-1-s.cpIdx]] {
				n++
				s.cpIdx = s.chooseCP(n)
			}
		}
		cp.ch[cp.ordCh[s.snaps-1-s.cpIdx]] = s.capo
		s.renewDiffs()
		s.rotateOrder()
		s.check = cp.ordCh[s.snaps-1]
		if cp.ch[s.check] == s.ch3[s.indNow] {
			// Part of the final distribution; freeze it.
			s.cpFest[s.check] = true
			s.indNow++
		}
		s.forward = 3
		cp.takeshots++
		return ActionTakeshot
	}
	// End of the r=3 range; escalate.
	return ActionTerminate
}

// chooseCP returns the index (within the slot ordering) of a
// checkpoint satisfying the replacement condition, skipping the first
// number-1 candidates.
func (s *onlineR3) chooseCP(number int) int {
	i := 2
	if s.tdiff[0] == 3 && number == 1 {
		return 0
	}
	if s.tdiff[0]+s.tdiff[1] <= 10 && number <= 2 {
		return 1
	}
	for number > 0 {
		if s.tdiff[i-1]+s.tdiff[i] <= s.tdiffEnd[i] {
			number--
		}
		i++
	}
	return i - 1
}

// renewDiffs updates tdiff after the checkpoint at ordering position
// cpIdx was replaced.
func (s *onlineR3) renewDiffs() {
	if s.cpIdx == 0 {
		if s.forward == 3 {
			s.tdiff[0] = 6
		} else {
			s.tdiff[0]++
		}
		return
	}
	sum := s.tdiff[0]
	for i := s.cpIdx - 1; i > 0; i-- {
		sum += s.tdiff[i] - s.tdiff[i-1]
		s.tdiff[i] = s.tdiff[i-1]
	}
	s.tdiff[s.cpIdx] += sum
	s.tdiff[0] = 3
}

// rotateOrder cycles the slot ordering so the replaced slot becomes
// the most recent.
func (s *onlineR3) rotateOrder() {
	if s.cpIdx == 0 {
		return
	}
	cp := s.cp
	value := cp.ordCh[s.snaps-1-s.cpIdx]
	for i := s.cpIdx; i > 0; i-- {
		cp.ordCh[s.snaps-i-1] = cp.ordCh[s.snaps-i]
	}
	cp.ordCh[s.snaps-1] = value
}
