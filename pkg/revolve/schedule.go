package revolve

// schedule is the capability shared by every scheduling strategy. The
// façade owns exactly one live schedule at a time; strategy transitions
// replace it while the checkpoint store stays put.
type schedule interface {
	revolve() Action
	getCapo() int
	getFine() int
	getCheck() int
	getInfo() int
	setCapo(int)
	setFine(int)
}

// onlineSnapshot freezes the observable state of an online scheduler at
// the reverse turn. The offline scheduler rebuilds its slot ordering
// from the shared store plus this snapshot; the online scheduler is
// dropped immediately after it is captured.
type onlineSnapshot struct {
	check int
	capo  int
}

func snapshotOnline(s schedule) onlineSnapshot {
	return onlineSnapshot{check: s.getCheck(), capo: s.getCapo()}
}
