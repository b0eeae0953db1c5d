package variational

import (
	"fmt"

	"github.com/notargets/goform/geometry"
	"gonum.org/v1/gonum/mat"
)

// Function is a node of an expression tree evaluated at mesh points. Composite nodes own
// deep copies of their children.
type Function interface {
	RangeShape() RangeShape
	// Value evaluates the expression, the result is owned by the caller
	Value(p *geometry.Point) *mat.Dense
	// TraceDomain is the set of element attributes used to pick a side when the expression
	// is evaluated on a face
	TraceDomain() geometry.AttributeSet
	// SetTraceDomain sets the trace domain of the node and every node below it
	SetTraceDomain(attrs geometry.AttributeSet)
	Copy() Function
}

// TraceOf returns a copy of f restricted to the traces of the elements carrying attrs
func TraceOf(f Function, attrs ...int) Function {
	c := f.Copy()
	c.SetTraceDomain(geometry.NewAttributeSet(attrs...))
	return c
}

// ScalarAt evaluates a scalar function
func ScalarAt(f Function, p *geometry.Point) float64 {
	assertType("ScalarAt", f.RangeShape(), Scalar)
	return f.Value(p).At(0, 0)
}

type trace struct {
	domain geometry.AttributeSet
}

func (t *trace) TraceDomain() geometry.AttributeSet { return t.domain }

func (t *trace) SetTraceDomain(attrs geometry.AttributeSet) { t.domain = attrs.Copy() }

func (t trace) copyTrace() trace { return trace{t.domain.Copy()} }

// ScalarFunction is a constant
type ScalarFunction struct {
	trace
	value float64
}

func NewScalarFunction(v float64) *ScalarFunction { return &ScalarFunction{value: v} }

func (f *ScalarFunction) RangeShape() RangeShape             { return ScalarShape() }
func (f *ScalarFunction) Value(p *geometry.Point) *mat.Dense { return scalarValue(f.value) }
func (f *ScalarFunction) Constant() float64                  { return f.value }
func (f *ScalarFunction) Copy() Function {
	return &ScalarFunction{trace: f.copyTrace(), value: f.value}
}

// ScalarFunc wraps a closure over points
type ScalarFunc struct {
	trace
	fn func(p *geometry.Point) float64
}

func NewScalarFunc(fn func(p *geometry.Point) float64) *ScalarFunc { return &ScalarFunc{fn: fn} }

func (f *ScalarFunc) RangeShape() RangeShape             { return ScalarShape() }
func (f *ScalarFunc) Value(p *geometry.Point) *mat.Dense { return scalarValue(f.fn(p)) }
func (f *ScalarFunc) Copy() Function                     { return &ScalarFunc{trace: f.copyTrace(), fn: f.fn} }

// VectorFunction stacks scalar functions into a column
type VectorFunction struct {
	trace
	comps []Function
}

func NewVectorFunction(values ...float64) *VectorFunction {
	comps := make([]Function, len(values))
	for i, v := range values {
		comps[i] = NewScalarFunction(v)
	}
	return &VectorFunction{comps: comps}
}

func NewVectorFunctionOf(comps ...Function) *VectorFunction {
	f := &VectorFunction{comps: make([]Function, len(comps))}
	for i, c := range comps {
		assertType("VectorFunction", c.RangeShape(), Scalar)
		f.comps[i] = c.Copy()
	}
	return f
}

func (f *VectorFunction) RangeShape() RangeShape { return VectorShape(len(f.comps)) }
func (f *VectorFunction) Value(p *geometry.Point) *mat.Dense {
	v := mat.NewDense(len(f.comps), 1, nil)
	for i, c := range f.comps {
		v.Set(i, 0, c.Value(p).At(0, 0))
	}
	return v
}
func (f *VectorFunction) SetTraceDomain(attrs geometry.AttributeSet) {
	f.trace.SetTraceDomain(attrs)
	for _, c := range f.comps {
		c.SetTraceDomain(attrs)
	}
}
func (f *VectorFunction) Copy() Function {
	c := &VectorFunction{trace: f.copyTrace(), comps: make([]Function, len(f.comps))}
	for i, comp := range f.comps {
		c.comps[i] = comp.Copy()
	}
	return c
}

// VectorFunc wraps a closure returning n components
type VectorFunc struct {
	trace
	n  int
	fn func(p *geometry.Point) []float64
}

func NewVectorFunc(n int, fn func(p *geometry.Point) []float64) *VectorFunc {
	return &VectorFunc{n: n, fn: fn}
}

func (f *VectorFunc) RangeShape() RangeShape { return VectorShape(f.n) }
func (f *VectorFunc) Value(p *geometry.Point) *mat.Dense {
	v := f.fn(p)
	if len(v) != f.n {
		panic(fmt.Errorf("vector function returned %d components, declared %d", len(v), f.n))
	}
	return mat.NewDense(f.n, 1, append([]float64{}, v...))
}
func (f *VectorFunc) Copy() Function { return &VectorFunc{trace: f.copyTrace(), n: f.n, fn: f.fn} }

// MatrixFunction is a constant matrix
type MatrixFunction struct {
	trace
	m *mat.Dense
}

func NewMatrixFunction(m mat.Matrix) *MatrixFunction {
	return &MatrixFunction{m: mat.DenseCopyOf(m)}
}

func (f *MatrixFunction) RangeShape() RangeShape {
	r, c := f.m.Dims()
	return RangeShape{r, c}
}
func (f *MatrixFunction) Value(p *geometry.Point) *mat.Dense { return mat.DenseCopyOf(f.m) }
func (f *MatrixFunction) Copy() Function {
	return &MatrixFunction{trace: f.copyTrace(), m: mat.DenseCopyOf(f.m)}
}

// MatrixFunc wraps a closure returning a rows x cols matrix
type MatrixFunc struct {
	trace
	shape RangeShape
	fn    func(p *geometry.Point) *mat.Dense
}

func NewMatrixFunc(rows, cols int, fn func(p *geometry.Point) *mat.Dense) *MatrixFunc {
	return &MatrixFunc{shape: RangeShape{rows, cols}, fn: fn}
}

func (f *MatrixFunc) RangeShape() RangeShape { return f.shape }
func (f *MatrixFunc) Value(p *geometry.Point) *mat.Dense {
	v := f.fn(p)
	if r, c := v.Dims(); r != f.shape.Rows || c != f.shape.Cols {
		panic(RangeShapeMismatchError{Op: "MatrixFunc", Left: f.shape, Right: RangeShape{r, c}})
	}
	// Operators combine values in place
	return mat.DenseCopyOf(v)
}
func (f *MatrixFunc) Copy() Function {
	return &MatrixFunc{trace: f.copyTrace(), shape: f.shape, fn: f.fn}
}

// IdentityMatrix is the n x n identity
type IdentityMatrix struct {
	trace
	n int
}

func NewIdentityMatrix(n int) *IdentityMatrix { return &IdentityMatrix{n: n} }

func (f *IdentityMatrix) RangeShape() RangeShape { return RangeShape{f.n, f.n} }
func (f *IdentityMatrix) Value(p *geometry.Point) *mat.Dense {
	v := mat.NewDense(f.n, f.n, nil)
	for i := 0; i < f.n; i++ {
		v.Set(i, i, 1)
	}
	return v
}
func (f *IdentityMatrix) Copy() Function { return &IdentityMatrix{trace: f.copyTrace(), n: f.n} }

// Normal is the unit outward normal of the face a point lies on
type Normal struct {
	trace
	sdim int
}

func NewNormal(sdim int) *Normal { return &Normal{sdim: sdim} }

func (f *Normal) RangeShape() RangeShape { return VectorShape(f.sdim) }
func (f *Normal) Value(p *geometry.Point) *mat.Dense {
	return mat.NewDense(f.sdim, 1, p.Normal())
}
func (f *Normal) Copy() Function { return &Normal{trace: f.copyTrace(), sdim: f.sdim} }
