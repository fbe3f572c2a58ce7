package vm

// FibCode is the embedded demonstration program: given n in r0 it computes
// the n-th element of the sequence f(0)=1, f(1)=1, f(n)=f(n-1)+f(n-2) and
// returns it in r0, bounced through the data segment on the way out.
//
//	f(0)=1  f(1)=1  f(2)=2  f(3)=3  f(4)=5  f(5)=8  ...
//
// The counter in r3 is decremented at the top of each iteration and the loop
// exits before the pair update when it reaches zero, so inputs 0 and 1 never
// update the seed pair. Branch displacements follow the machine convention
// that a taken branch lands at pc + disp + 6.
var FibCode = []byte{
	// 0: r3 := n, seed pair r1 = f(k-1) = 1, r2 = f(k) = 1
	'M', 0x03, 0x00,
	'I', 0x01, 0x01,
	'I', 0x02, 0x01,

	// 9: if n == 0 -> epilogue (r6 := 0 + r3 just to set flags from r3)
	'I', 0x06, 0x00,
	'A', 0x06, 0x03,
	'B', 'E', 0x1b, 0x00, 0x00, 0x00, // 15: taken -> 48

	// 21: loop: r3 -= 1; counter hit zero -> epilogue
	'I', 0x05, 0x01,
	'U', 0x03, 0x05,
	'B', 'E', 0x0f, 0x00, 0x00, 0x00, // 27: taken -> 48

	// 33: (r1, r2) := (r2, r1+r2); the add leaves Zero clear, so the
	// closing BNE always loops
	'M', 0x04, 0x02,
	'A', 0x02, 0x01,
	'M', 0x01, 0x04,
	'B', 'N', 0xe5, 0xff, 0xff, 0xff, // 42: disp -27, taken -> 21

	// 48: epilogue: store r2 at data[0], reload it into r0
	'I', 0x00, 0x00,
	'S', 0x00, 0x02,
	'L', 0x00, 0x00,
	'H',
}
