package revolve

import "math"

// The write and read counts below follow "Multi-Stage Approaches for
// Optimal Offline Checkpointing" (Stumm/Walther): closed-form per-slot
// traffic of the binomial schedule, used to decide which slots belong
// in the fast storage tier.

// cal is the inner write-count term for the two-segment regime.
func cal(l, c, i int) int {
	if i == 0 {
		return 0
	}
	if float64(l) > float64((1+i)*c)-0.5*float64((i-1)*i)+1 {
		return i
	}
	h := 0.5 * float64(1+2*c)
	return int(math.Floor(h-math.Sqrt(h*h+float64(2*i+4-2*l)))) - 1
}

// NumWritesPredicted returns the number of times slot i is written
// when reversing l steps with c slots under the binomial schedule.
func NumWritesPredicted(l, c, i int) int {
	if i == 0 {
		return 1
	}
	switch {
	case l <= 1+i:
		return 0
	case l <= 2*c+i:
		return 1
	case float64(l) <= float64((1+i)*c)-0.5*float64((i-1)*i)+1:
		h := 0.5 * float64(1+2*c)
		return int(math.Floor(h - math.Sqrt(h*h+float64(2*i+4-2*l))))
	case float64(l) <= float64(c*c)+2*float64(c)+float64(i):
		return i + 1
	}

	l0 := float64(c*c) + 2*float64(c) + 1
	a := 27*float64(c)*float64(c*c-1) + 162*(l0-float64(l))
	var k int
	if a == 0 {
		k = c - 1
	} else {
		root := math.Sqrt(a*a - 108)
		k = int(math.Floor(float64(c) - math.Pow(2/(a+root), 1.0/3) - math.Pow(0.5*(a+root), 1.0/3)/3))
	}
	lk := float64(k*k*k)/6 - float64(c)/2*float64(k*k) + float64(3*c*c-1)*float64(k)/6 + l0
	if i <= k {
		return (i*i+3*i)/2 + 1
	}
	wik := i*k + i + 1 - k*(k-1)/2
	return wik + cal(l-int(lk)+2*(c-k)+1, c-k, i-k)
}

// NumReadsPredicted returns the number of times slot i is read when
// reversing l steps with c slots under the binomial schedule.
func NumReadsPredicted(l, c, i int) int {
	switch {
	case l <= i+1:
		return 0
	case l <= 2*c-i:
		return 1
	case l <= 2*c+1:
		return 2
	case float64(l) <= float64(c*c)/2+1.5*float64(c)+1:
		return NumWritesPredicted(l, c, i) + 1
	case l <= c*c+2*c+1:
		a := 0.5 * float64(4*i-2*c+7)
		b := math.Pow(float64(c-2*i-3), 2) + float64(c) + 3
		if float64(l) >= float64(c*c+2*c+1-c*i)+0.5*float64(i*i-i) {
			return int(math.Floor(a + math.Sqrt(a*a-b+2*(float64(l)-0.5*float64(c*c)-1.5*float64(c)-1))))
		}
		return i + 2
	default:
		return NumWritesPredicted(l, c, i) + i + 2
	}
}

// writeReadCounts returns the predicted per-slot traffic (writes plus
// reads) for an offline run of steps with snaps slots.
func writeReadCounts(steps, snaps int) []int {
	num := make([]int, snaps)
	for i := range num {
		num[i] = NumWritesPredicted(steps, snaps, i) + NumReadsPredicted(steps, snaps, i)
	}
	return num
}
