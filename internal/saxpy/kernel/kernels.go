package kernel

import "github.com/cwbudde/algo-vecmath/cpu"

func init() {
	Global.Register(Entry{
		Name:        "generic",
		SIMDLevel:   cpu.SIMDNone,
		Priority:    0,
		Axpy:        axpyGeneric,
		AxpyStrided: axpyStrided,
	})
	Global.Register(Entry{
		Name:        "unrolled4",
		SIMDLevel:   cpu.SIMDNone,
		Priority:    10,
		Tuned:       true,
		Axpy:        axpyUnrolled4,
		AxpyStrided: axpyStrided,
	})
}

// The float32 conversion rounds the product before the add, which keeps the
// compiler from fusing the expression into an FMA on arm64 and friends.

func axpyGeneric(y []float32, a float32, x []float32) {
	x = x[:len(y)]
	for i, v := range x {
		y[i] = float32(a*v) + y[i]
	}
}

func axpyUnrolled4(y []float32, a float32, x []float32) {
	n := len(y)
	x = x[:n]

	i := 0
	for ; i+4 <= n; i += 4 {
		xs := x[i : i+4 : i+4]
		ys := y[i : i+4 : i+4]
		ys[0] = float32(a*xs[0]) + ys[0]
		ys[1] = float32(a*xs[1]) + ys[1]
		ys[2] = float32(a*xs[2]) + ys[2]
		ys[3] = float32(a*xs[3]) + ys[3]
	}

	for ; i < n; i++ {
		y[i] = float32(a*x[i]) + y[i]
	}
}

func axpyStrided(y []float32, a float32, x []float32, start, stride int) {
	x = x[:len(y)]
	for i := start; i < len(y); i += stride {
		y[i] = float32(a*x[i]) + y[i]
	}
}
