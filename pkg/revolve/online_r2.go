package revolve

import "log/slog"

// onlineR2 places checkpoints during a forward sweep of unknown length.
// The schedule is optimal for step counts up to (snaps+2)*(snaps+1)/2.
// With four or more slots it returns ActionTerminate past that, which
// the façade treats as a handoff to the r=3 strategy, never as a
// host-visible stop. With one to three slots it never returns
// ActionTerminate and keeps placing checkpoints.
type onlineR2 struct {
	snaps int
	check int
	capo  int
	info  int

	oldcapo int
	offset  int
	incr    int
	iter    int
	t       int
	oldind  int
	oldF    int
	ind     int
	numRep  []int

	cp  *checkpointStore
	log *slog.Logger
}

func newOnlineR2(snaps int, cp *checkpointStore, log *slog.Logger) *onlineR2 {
	cp.ch[0] = 0
	return &onlineR2{
		snaps:  snaps,
		check:  -1,
		capo:   0,
		numRep: make([]int, snaps+1),
		cp:     cp,
		log:    log,
	}
}

func (s *onlineR2) getCapo() int  { return s.capo }
func (s *onlineR2) getFine() int  { return -1 }
func (s *onlineR2) getCheck() int { return s.check }
func (s *onlineR2) getInfo() int  { return s.info }
func (s *onlineR2) setCapo(c int) { s.capo = c }
func (s *onlineR2) setFine(int)   {}

func (s *onlineR2) revolve() Action {
	cp := s.cp
	cp.commands++
	switch {
	case s.check == -1 || (cp.ch[s.check] != s.capo && s.capo <= s.snaps-1):
		// One checkpoint per step while slots remain (r=1 phase).
		s.oldcapo = s.capo
		s.check++
		cp.ch[s.check] = s.capo
		s.t = 0
		if s.snaps < 4 {
			for i := 0; i < s.snaps; i++ {
				s.numRep[i] = 2
			}
			s.incr = 2
			s.iter = 1
			s.oldind = s.snaps - 1
		} else {
			s.iter = 1
			s.incr = 1
			s.oldind = 1
			for i := 0; i < s.snaps; i++ {
				s.numRep[i] = 1
				cp.ordCh[i] = i
			}
			s.offset = s.snaps - 1
		}
		if s.capo == s.snaps-1 {
			s.ind = 2
			s.oldF = 1
		}
		cp.takeshots++
		return ActionTakeshot

	case s.capo < s.snaps-1:
		s.capo = s.oldcapo + 1
		cp.advances++
		return ActionAdvance

	default:
		if cp.ch[s.check] == s.capo {
			return s.advanceR2()
		}
		return s.takeshotR2()
	}
}

func (s *onlineR2) advanceR2() Action {
	cp := s.cp
	switch s.snaps {
	case 1:
		s.capo = MaxInt - 1
		cp.advances++
		return ActionAdvance
	case 2:
		s.capo = cp.ch[1] + s.incr
		cp.advances++
		return ActionAdvance
	case 3:
		cp.advances += s.incr
		if s.iter == 0 {
			s.capo = cp.ch[s.oldind]
			for i := 0; i <= (s.t+1)/2; i++ {
				s.capo += s.incr
				s.incr++
				s.iter++
			}
		} else {
			s.capo = cp.ch[s.ind] + s.incr
			s.iter++
			s.incr++
		}
		return ActionAdvance
	default:
		if s.capo == s.snaps-1 {
			s.capo += 2
			s.ind = s.snaps - 1
			cp.advances += 2
			return ActionAdvance
		}
		if s.t == 0 {
			if s.iter < s.offset {
				s.capo++
				cp.advances++
			} else {
				s.capo += 2
				cp.advances += 2
			}
			if s.offset == 1 {
				s.t++
			}
			return ActionAdvance
		}
		// The original schedule is not defined past this point; the
		// façade should have escalated on the takeshot side first.
		s.log.Error("online r=2 advance requested beyond schedule range",
			slog.Int("capo", s.capo),
			slog.Int("iter", s.iter),
			slog.Int("incr", s.incr),
		)
		return ActionError
	}
}

func (s *onlineR2) takeshotR2() Action {
	cp := s.cp
	switch s.snaps {
	case 2:
		cp.ch[1] = s.capo
		s.incr++
		cp.takeshots++
		return ActionTakeshot
	case 3:
		cp.ch[s.ind] = s.capo
		s.check = s.ind
		if s.iter == s.numRep[1] {
			s.iter = 0
			s.t++
			s.oldind = s.ind
			s.numRep[1]++
			s.ind = 2 - s.numRep[1]%2
			s.incr = 1
		}
		cp.takeshots++
		return ActionTakeshot
	default:
		if s.capo < s.snaps+2 {
			cp.ch[s.ind] = s.capo
			s.check = s.ind
			if s.capo == s.snaps+1 {
				s.oldind = cp.ordCh[s.snaps-1]
				s.ind = cp.ch[cp.ordCh[s.snaps-1]]
				for k := s.snaps - 1; k > 1; k-- {
					cp.ordCh[k] = cp.ordCh[k-1]
					cp.ch[cp.ordCh[k]] = cp.ch[cp.ordCh[k-1]]
				}
				cp.ordCh[1] = s.oldind
				cp.ch[cp.ordCh[1]] = s.ind
				s.incr = 2
				s.ind = 2
			}
			cp.takeshots++
			return ActionTakeshot
		}
		if s.t == 0 {
			if s.iter == s.offset {
				s.offset--
				s.iter = 1
				s.check = cp.ordCh[s.snaps-1]
				cp.ch[cp.ordCh[s.snaps-1]] = s.capo
				s.oldind = cp.ordCh[s.snaps-1]
				s.ind = cp.ch[cp.ordCh[s.snaps-1]]
				for k := s.snaps - 1; k > s.incr; k-- {
					cp.ordCh[k] = cp.ordCh[k-1]
					cp.ch[cp.ordCh[k]] = cp.ch[cp.ordCh[k-1]]
				}
				cp.ordCh[s.incr] = s.oldind
				cp.ch[cp.ordCh[s.incr]] = s.ind
				s.incr++
				s.ind = s.incr
			} else {
				cp.ch[cp.ordCh[s.ind]] = s.capo
				s.check = cp.ordCh[s.ind]
				s.iter++
				s.ind++
			}
			cp.takeshots++
			return ActionTakeshot
		}
		// No further checkpoint fits the r=2 bound; escalate.
		return ActionTerminate
	}
}
