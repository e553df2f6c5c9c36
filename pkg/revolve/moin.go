package revolve

import "log/slog"

// moinInfinity marks slot 0's level: it always keeps step 0 and is
// never dispensable.
const moinInfinity = 10000

// moin is the level-based online scheduler, entered once the r=3 range
// is exhausted. Each slot carries a level counter; slots whose level
// and step are both dominated by a fresher slot become dispensable and
// may be overwritten.
type moin struct {
	snaps int
	check int
	capo  int
	info  int

	start    bool
	start1   bool
	isD      bool
	forward  int
	lmin     int
	indexOld int

	cp  *checkpointStore
	log *slog.Logger
}

func newMoin(snaps int, cp *checkpointStore, log *slog.Logger) *moin {
	s := &moin{
		snaps:  snaps,
		check:  0,
		capo:   (snaps+3)*(snaps+2)*(snaps+1)/6 - 1,
		start:  true,
		start1: true,
		cp:     cp,
		log:    log,
	}
	cp.lvl[0] = moinInfinity
	cp.disp[0] = false
	for i := 1; i < snaps; i++ {
		cp.lvl[i] = 2
		cp.disp[i] = true
	}
	return s
}

func (s *moin) getCapo() int  { return s.capo }
func (s *moin) getFine() int  { return -1 }
func (s *moin) getCheck() int { return s.check }
func (s *moin) getInfo() int  { return s.info }
func (s *moin) setCapo(c int) { s.capo = c }
func (s *moin) setFine(int)   {}

func (s *moin) revolve() Action {
	cp := s.cp
	cp.commands++
	if s.start {
		s.capo++
		s.start = false
		cp.advances++
		return ActionAdvance
	}
	if s.start1 {
		s.start1 = false
		for i := 1; i < s.snaps; i++ {
			if cp.ordCh[i] == s.snaps-1 {
				cp.ch[i] = s.capo
				s.check = i
				cp.lvl[i] = 3
				cp.disp[i] = false
			}
		}
		s.forward = 1
		cp.takeshots++
		return ActionTakeshot
	}
	if s.forward > 0 {
		s.capo += s.forward
		s.forward = 0
		cp.advances++
		return ActionAdvance
	}
	if index, ok := s.dispensable(); ok {
		cp.ch[index] = s.capo
		cp.lvl[index] = 0
		cp.disp[index] = false
		s.indexOld = index
		s.forward = 1
		s.check = index
		cp.takeshots++
		return ActionTakeshot
	}
	if s.isD {
		cp.ch[s.indexOld] = s.capo
		s.check = s.indexOld
		s.lmin = s.levelMin()
		cp.lvl[s.indexOld] = s.lmin + 1
		cp.disp[s.indexOld] = false
		s.markDispensable(s.indexOld)
		s.isD = false
		s.forward = 1
		cp.takeshots++
		return ActionTakeshot
	}
	s.lmin = s.levelMin()
	s.forward = s.lmin + 1
	s.capo += s.forward
	s.isD = true
	s.forward = 0
	cp.advances++
	return ActionAdvance
}

// dispensable reports whether any slot may be overwritten, returning
// the dispensable slot with the largest stored step.
func (s *moin) dispensable() (int, bool) {
	cp := s.cp
	found := false
	best := 0
	index := 0
	for i := s.snaps - 1; i > 0; i-- {
		if cp.disp[i] {
			found = true
			if cp.ch[i] > best {
				best = cp.ch[i]
				index = i
			}
		}
	}
	return index, found
}

// levelMin returns the smallest level among slots 1..snaps-1.
func (s *moin) levelMin() int {
	cp := s.cp
	lmin := cp.lvl[1]
	for i := 2; i < s.snaps; i++ {
		if cp.lvl[i] < lmin {
			lmin = cp.lvl[i]
		}
	}
	return lmin
}

// markDispensable re-marks as dispensable every slot dominated by slot
// index in both level and step.
func (s *moin) markDispensable(index int) {
	cp := s.cp
	level := cp.lvl[index]
	time := cp.ch[index]
	for i := s.snaps - 1; i > 0; i-- {
		if i != index && cp.lvl[i] < level && cp.ch[i] < time {
			cp.disp[i] = true
		}
	}
}
