package tensor

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for graph operations; they panic on
// invalid input and the evaluation layer turns those panics into errors.
//
// Implementations:
//   - CPU: Pure Go (internal/backend/cpu)
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Element-wise math operations (floating point only).
	Neg(x *RawTensor) *RawTensor
	Abs(x *RawTensor) *RawTensor
	Exp(x *RawTensor) *RawTensor
	Log(x *RawTensor) *RawTensor
	Log1p(x *RawTensor) *RawTensor    // log(1 + x), accurate near 0
	Expm1(x *RawTensor) *RawTensor    // exp(x) - 1, accurate near 0
	Softplus(x *RawTensor) *RawTensor // log(1 + exp(x)), overflow-free

	// Comparison and boolean operations (return Bool tensors).
	Equal(a, b *RawTensor) *RawTensor
	GreaterEqual(a, b *RawTensor) *RawTensor
	And(a, b *RawTensor) *RawTensor
	Or(a, b *RawTensor) *RawTensor
	Where(condition, x, y *RawTensor) *RawTensor

	// Reductions.
	SumDims(x *RawTensor, dims []int) *RawTensor // Sum over dims, removing them.

	// Shape manipulation.
	Reshape(x *RawTensor, newShape Shape) *RawTensor
	Cat(tensors []*RawTensor, dim int) *RawTensor
	Gather(x *RawTensor, dim int, index *RawTensor) *RawTensor
	Cast(x *RawTensor, dtype DataType) *RawTensor

	// Batched linear algebra. Leading (batch) axes broadcast right-aligned.
	MatVec(a, x *RawTensor) *RawTensor // [..., M, N] x [..., N] -> [..., M]
	Solve(a, b *RawTensor) *RawTensor  // solves a·x = b for x, [..., N, N] and [..., N]
	LogAbsDet(a *RawTensor) *RawTensor // log|det(a)|, [..., N, N] -> [...]

	// Metadata.
	Name() string
	Device() Device
}
