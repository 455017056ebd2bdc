package terrain

// Evaluator fills a square grid of elevation samples for a world window.
// The height field treats it as an opaque pass: the default implementation
// evaluates the elevation function on the CPU, the graphics package provides
// one that runs the same function as a fragment pass and reads the result
// back.
type Evaluator interface {
	// FillGrid writes n*n samples into dst, row-major, covering the window
	// [cx-extent/2, cx+extent/2] x [cz-extent/2, cz+extent/2]. dst must have
	// at least n*n elements.
	FillGrid(dst []float32, n int, cx, cz, extent, scale, amplitude float32)

	// Release frees any device resources held by the evaluator.
	Release()
}

// FuncEvaluator evaluates the elevation function directly on the CPU.
type FuncEvaluator struct {
	f *Elevation
}

// NewFuncEvaluator wraps an elevation function as an Evaluator.
func NewFuncEvaluator(f *Elevation) *FuncEvaluator {
	return &FuncEvaluator{f: f}
}

func (e *FuncEvaluator) FillGrid(dst []float32, n int, cx, cz, extent, scale, amplitude float32) {
	half := extent / 2
	step := extent / float32(n-1)
	for iz := 0; iz < n; iz++ {
		z := cz - half + float32(iz)*step
		row := dst[iz*n : iz*n+n]
		for ix := 0; ix < n; ix++ {
			x := cx - half + float32(ix)*step
			row[ix] = e.f.At(x, z, scale, amplitude)
		}
	}
}

func (e *FuncEvaluator) Release() {}
