package revolve

import "log/slog"

// offline drives the Griewank-Walther binomial schedule over a known
// step count. It also performs the reverse sweep for schedules that
// originate from an online forward sweep; in that mode the slot order
// is given by the store's ordering rather than the slot index.
type offline struct {
	steps int
	snaps int

	check int
	capo  int
	fine  int

	oldsnaps int
	oldfine  int
	turn     bool
	online   bool
	info     int

	// numCh[i] is the rank of slot i's step among all stored steps,
	// computed once at the online handoff.
	numCh []int

	cp  *checkpointStore
	log *slog.Logger
}

// newOffline creates the standard offline scheduler for a known number
// of steps.
func newOffline(steps, snaps int, cp *checkpointStore, log *slog.Logger) *offline {
	cp.ch[0] = 0
	return &offline{
		steps: steps,
		snaps: snaps,
		check: -1,
		capo:  0,
		fine:  steps,
		info:  3,
		cp:    cp,
		log:   log,
	}
}

// newOfflineFromOnline creates the reversal scheduler for a checkpoint
// layout produced by an online forward sweep of final steps.
func newOfflineFromOnline(snaps int, cp *checkpointStore, snap onlineSnapshot, final int, log *slog.Logger) *offline {
	cp.ch[0] = 0
	s := &offline{
		steps:    final,
		snaps:    snaps,
		check:    snap.check,
		capo:     final - 1,
		fine:     final,
		oldsnaps: snaps,
		online:   true,
		numCh:    make([]int, snaps),
		cp:       cp,
		log:      log,
	}
	for i := 0; i < snaps; i++ {
		for j := 0; j < snaps; j++ {
			if cp.ch[j] < cp.ch[i] {
				s.numCh[i]++
			}
		}
	}
	for i := 0; i < snaps; i++ {
		for j := 0; j < snaps; j++ {
			if s.numCh[j] == i {
				cp.ordCh[i] = j
			}
		}
	}
	cp.advances = final - 1
	return s
}

func (s *offline) getCapo() int  { return s.capo }
func (s *offline) getFine() int  { return s.fine }
func (s *offline) getCheck() int { return s.check }
func (s *offline) getInfo() int  { return s.info }
func (s *offline) setCapo(c int) { s.capo = c }
func (s *offline) setFine(f int) { s.fine = f }
func (s *offline) setInfo(v int) { s.info = v }

func (s *offline) revolve() Action {
	cp := s.cp
	cp.commands++
	if s.check < -1 || s.capo > s.fine {
		return ActionError
	}
	if s.check == -1 && s.capo < s.fine {
		s.turn = false
		// Sentinel for the final terminate detection.
		cp.ch[0] = s.capo - 1
	}
	switch s.fine - s.capo {
	case 0:
		// Reduce capo to the previous checkpoint, unless done.
		if s.check == -1 || s.capo == cp.ch[0] {
			if s.info > 0 {
				s.log.Debug("schedule complete",
					slog.Int("advances", cp.advances),
					slog.Int("takeshots", cp.takeshots),
					slog.Int("commands", cp.commands),
				)
			}
			return ActionTerminate
		}
		if s.online {
			// Slots are not step-ordered by index after an online
			// sweep; restore the largest stored step below capo.
			ind := 0
			for i := 0; i < s.snaps; i++ {
				if cp.ch[i] > cp.ch[ind] && cp.ch[i] < s.capo {
					ind = i
				}
			}
			s.check = ind
		}
		s.capo = cp.ch[s.check]
		s.oldfine = s.fine
		cp.numReads[s.check]++
		return ActionRestore

	case 1:
		// (Possibly first) combined forward/reverse step.
		s.fine--
		if s.check >= 0 && cp.ch[s.check] == s.capo {
			s.check--
		}
		s.oldfine = s.fine
		if !s.turn {
			s.turn = true
			return ActionFirsturn
		}
		return ActionYouturn

	default:
		if s.check == -1 {
			return s.firstTakeshot()
		}
		if cp.ch[s.check] != s.capo {
			return s.takeshot()
		}
		return s.advance()
	}
}

func (s *offline) firstTakeshot() Action {
	cp := s.cp
	cp.ch[0] = 0
	s.check = 0
	s.oldsnaps = s.snaps
	if s.snaps > CheckUp {
		s.info = 14
		return ActionError
	}
	if s.info > 0 {
		num := Numforw(s.fine-s.capo, s.snaps)
		if num == -1 {
			s.info = 12
			return ActionError
		}
		s.log.Debug("forward-step prediction",
			slog.Int("numforw", num),
			slog.Float64("slowdown", float64(num)/float64(s.fine-s.capo)),
		)
	}
	s.oldfine = s.fine
	cp.numWrites[s.check]++
	cp.takeshots++
	return ActionTakeshot
}

func (s *offline) takeshot() Action {
	cp := s.cp
	if s.online {
		s.check = cp.ordCh[s.numCh[s.check]+1]
	} else {
		s.check++
	}
	if s.check >= CheckUp {
		s.info = 10
		return ActionError
	}
	if s.check+1 > s.snaps {
		s.info = 11
		return ActionError
	}
	cp.ch[s.check] = s.capo
	cp.takeshots++
	s.oldfine = s.fine
	cp.numWrites[s.check]++
	return ActionTakeshot
}

func (s *offline) advance() Action {
	cp := s.cp
	if s.oldfine < s.fine && s.snaps == s.check+1 {
		s.info = 13
		return ActionError
	}
	oldcapo := s.capo
	var ds int
	if s.online {
		ds = s.snaps - s.numCh[s.check]
	} else {
		ds = s.snaps - s.check
	}
	if ds < 1 {
		s.info = 11
		return ActionError
	}
	reps := 0
	rng := 1
	for rng < s.fine-s.capo {
		reps++
		rng = rng * (reps + ds) / reps
	}
	if reps > RepsUp {
		s.info = 15
		return ActionError
	}
	if s.snaps != s.oldsnaps {
		if s.snaps > CheckUp {
			s.info = 14
			return ActionError
		}
	}

	bino1 := rng * reps / (ds + reps)
	bino2 := 1
	if ds > 1 {
		bino2 = bino1 * ds / (ds + reps - 1)
	}
	var bino3 int
	switch {
	case ds == 1:
		bino3 = 0
	case ds > 2:
		bino3 = bino2 * (ds - 1) / (ds + reps - 2)
	default:
		bino3 = 1
	}
	bino4 := bino2 * (reps - 1) / ds
	var bino5 int
	switch {
	case ds < 3:
		bino5 = 0
	case ds > 3:
		bino5 = bino3 * (ds - 2) / reps
	default:
		bino5 = 1
	}

	switch {
	case s.fine-s.capo <= bino1+bino3:
		s.capo += bino4
	case s.fine-s.capo >= rng-bino5:
		s.capo += bino1
	default:
		s.capo = s.fine - bino2 - bino3
	}
	if s.capo == oldcapo {
		s.capo = oldcapo + 1
	}
	cp.advances += s.capo - oldcapo
	s.oldfine = s.fine
	return ActionAdvance
}
