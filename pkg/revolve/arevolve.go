package revolve

import "log/slog"

// arevolve is a heuristic online scheduler, selectable (via
// WithHeuristicTail) in place of moin once the r=3 range is exhausted.
// On each call it evaluates, for every slot, the recomputation cost of
// the schedule that would result from moving that slot to the current
// step, and replaces the slot that minimizes it; when keeping the
// current distribution is cheaper it just advances.
type arevolve struct {
	snaps int
	check int
	capo  int
	info  int

	checkmax int
	fine     int
	oldfine  int
	newcapo  int
	oldcapo  int

	cp  *checkpointStore
	log *slog.Logger
}

func newArevolve(snaps int, cp *checkpointStore, log *slog.Logger) *arevolve {
	capo := (snaps+3)*(snaps+2)*(snaps+1)/6 - 1
	return &arevolve{
		snaps:    snaps,
		check:    snaps - 1,
		capo:     capo,
		checkmax: snaps - 1,
		fine:     capo + 2,
		newcapo:  capo,
		oldcapo:  capo,
		cp:       cp,
		log:      log,
	}
}

func (s *arevolve) getCapo() int  { return s.capo }
func (s *arevolve) getFine() int  { return s.fine }
func (s *arevolve) getCheck() int { return s.check }
func (s *arevolve) getInfo() int  { return s.info }
func (s *arevolve) setCapo(c int) { s.capo = c }
func (s *arevolve) setFine(f int) { s.fine = f }

// tmin is the binomial forward-step count for a sub-range, without the
// diagnostic chatter of Numforw.
func (s *arevolve) tmin(steps, snaps int) int {
	if snaps < 1 || snaps > CheckUp {
		s.log.Error("arevolve tmin: snaps out of range", slog.Int("snaps", snaps))
		return -1
	}
	reps := 0
	rng := 1
	for rng < steps {
		reps++
		rng = rng * (reps + snaps) / reps
	}
	if reps > RepsUp {
		s.log.Error("arevolve tmin: reps exceeds RepsUp", slog.Int("reps", reps))
		return -1
	}
	return reps*steps - rng*reps/(snaps+1)
}

// sumtmin is the forward-step count of the current distribution.
func (s *arevolve) sumtmin() int {
	cp := s.cp
	p := 0
	for i := 0; i < s.snaps-1; i++ {
		p += s.tmin(cp.ch[cp.ordCh[i+1]]-cp.ch[cp.ordCh[i]], s.snaps-i)
	}
	return p + s.tmin(s.fine-1-cp.ch[cp.ordCh[s.snaps-1]], 1) + s.fine - 1
}

// mintmin returns the ordering position of the slot whose replacement
// minimizes the forward-step count, or 0 when no replacement beats the
// current distribution.
func (s *arevolve) mintmin() int {
	cp := s.cp
	best := MaxInt
	k := 0
	z := 0
	sum := s.sumtmin()
	for j := 1; j < s.snaps; j++ {
		g := z
		if j-2 >= 0 {
			g = z + s.tmin(cp.ch[cp.ordCh[j-1]]-cp.ch[cp.ordCh[j-2]], s.snaps-j+2)
			z = g
		}
		if j < s.snaps-1 {
			g += s.tmin(cp.ch[cp.ordCh[j+1]]-cp.ch[cp.ordCh[j-1]], s.snaps-j+1)
			for i := j + 1; i <= s.snaps-2; i++ {
				g += s.tmin(cp.ch[cp.ordCh[i+1]]-cp.ch[cp.ordCh[i]], s.snaps-i+1)
			}
			g += s.tmin(s.fine-1-cp.ch[cp.ordCh[s.snaps-1]], 2)
		} else {
			g += s.tmin(s.fine-1-cp.ch[cp.ordCh[s.snaps-2]], 2)
		}
		if g < best {
			best = g
			k = j
		}
	}
	if best+s.fine-1 < sum {
		return k
	}
	return 0
}

// shiftOrder moves ordering position cpIdx to the most-recent end.
func (s *arevolve) shiftOrder(cpIdx int) {
	cp := s.cp
	value := cp.ordCh[cpIdx]
	for j := cpIdx; j < s.snaps-1; j++ {
		cp.ordCh[j] = cp.ordCh[j+1]
	}
	cp.ordCh[s.snaps-1] = value
}

func (s *arevolve) revolve() Action {
	cp := s.cp
	s.oldcapo = s.capo
	shift := s.mintmin()
	cp.commands++
	if shift == 0 {
		s.capo = s.oldcapo + 1
		s.oldfine = s.fine
		s.fine++
		cp.advances++
		return ActionAdvance
	}
	s.capo = s.oldcapo + 1
	slot := cp.ordCh[shift]
	cp.ch[slot] = s.capo
	s.shiftOrder(shift)
	s.check = slot
	s.oldfine = s.fine
	s.fine++
	s.newcapo = s.capo
	cp.takeshots++
	return ActionTakeshot
}
