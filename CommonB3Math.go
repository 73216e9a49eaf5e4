package box3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

/// This function is used to ensure that a floating point number is not a NaN or infinity.
func B3IsValid(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func B3Vec3IsValid(v mgl64.Vec3) bool {
	return B3IsValid(v[0]) && B3IsValid(v[1]) && B3IsValid(v[2])
}

var B3Vec3_zero = mgl64.Vec3{0, 0, 0}

// B3Vec3Normalize returns the unit vector of v and its length. A vector
// shorter than the degenerate tolerance is reported with ok == false and
// left unnormalized so no NaN escapes.
func B3Vec3Normalize(v mgl64.Vec3) (unit mgl64.Vec3, length float64, ok bool) {
	lengthSquared := v.LenSqr()
	if lengthSquared < B3_degenerateLengthSquared {
		return v, 0.0, false
	}
	length = math.Sqrt(lengthSquared)
	return v.Mul(1.0 / length), length, true
}

func B3Vec3Abs(a mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Abs(a[0]), math.Abs(a[1]), math.Abs(a[2])}
}

func B3Vec3Min(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Min(a[0], b[0]), math.Min(a[1], b[1]), math.Min(a[2], b[2])}
}

func B3Vec3Max(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Max(a[0], b[0]), math.Max(a[1], b[1]), math.Max(a[2], b[2])}
}

func B3Vec3DistanceSquared(a, b mgl64.Vec3) float64 {
	return a.Sub(b).LenSqr()
}

func B3FloatClamp(a, low, high float64) float64 {
	return math.Max(low, math.Min(a, high))
}

// B3TangentBasis builds two unit vectors orthogonal to the unit normal n
// and to each other.
func B3TangentBasis(n mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	var t1 mgl64.Vec3
	if math.Abs(n[0]) >= 0.57735 {
		t1 = mgl64.Vec3{n[1], -n[0], 0.0}
	} else {
		t1 = mgl64.Vec3{0.0, n[2], -n[1]}
	}
	t1, _, ok := B3Vec3Normalize(t1)
	if !ok {
		t1 = mgl64.Vec3{1, 0, 0}
	}
	t2 := n.Cross(t1)
	return t1, t2
}

///////////////////////////////////////////////////////////////////////////////
/// A transform contains translation and rotation. It is used to represent
/// the position and orientation of rigid frames.
///////////////////////////////////////////////////////////////////////////////
type B3Transform struct {
	P mgl64.Vec3
	Q mgl64.Quat
}

func MakeB3Transform() B3Transform {
	return B3Transform{
		P: B3Vec3_zero,
		Q: mgl64.QuatIdent(),
	}
}

func NewB3Transform() *B3Transform {
	res := MakeB3Transform()
	return &res
}

/// Initialize using a position vector and a rotation.
func MakeB3TransformByPositionAndRotation(position mgl64.Vec3, rotation mgl64.Quat) B3Transform {
	return B3Transform{
		P: position,
		Q: rotation.Normalize(),
	}
}

func (t *B3Transform) SetIdentity() {
	t.P = B3Vec3_zero
	t.Q = mgl64.QuatIdent()
}

/// Set this based on the position and an axis-angle rotation.
func (t *B3Transform) Set(position mgl64.Vec3, axis mgl64.Vec3, anglerad float64) {
	t.P = position
	t.Q = B3QuatFromAxisAngle(axis, anglerad)
}

func B3QuatFromAxisAngle(axis mgl64.Vec3, anglerad float64) mgl64.Quat {
	unit, _, ok := B3Vec3Normalize(axis)
	if !ok {
		return mgl64.QuatIdent()
	}
	s, c := math.Sincos(0.5 * anglerad)
	return mgl64.Quat{W: c, V: unit.Mul(s)}
}

func B3RotVec3Mul(q mgl64.Quat, v mgl64.Vec3) mgl64.Vec3 {
	return q.Rotate(v)
}

func B3RotVec3MulT(q mgl64.Quat, v mgl64.Vec3) mgl64.Vec3 {
	return q.Conjugate().Rotate(v)
}

func B3TransformVec3Mul(T B3Transform, v mgl64.Vec3) mgl64.Vec3 {
	return T.Q.Rotate(v).Add(T.P)
}

func B3TransformVec3MulT(T B3Transform, v mgl64.Vec3) mgl64.Vec3 {
	return T.Q.Conjugate().Rotate(v.Sub(T.P))
}

// v2 = A.q.Rot(B.q.Rot(v1) + B.p) + A.p
//    = (A.q * B.q).Rot(v1) + A.q.Rot(B.p) + A.p
func B3TransformMul(A, B B3Transform) B3Transform {
	return B3Transform{
		Q: A.Q.Mul(B.Q),
		P: A.Q.Rotate(B.P).Add(A.P),
	}
}

// v2 = A.q' * (B.q * v1 + B.p - A.p)
//    = A.q' * B.q * v1 + A.q' * (B.p - A.p)
func B3TransformMulT(A, B B3Transform) B3Transform {
	qt := A.Q.Conjugate()
	return B3Transform{
		Q: qt.Mul(B.Q),
		P: qt.Rotate(B.P.Sub(A.P)),
	}
}

///////////////////////////////////////////////////////////////////////////////
/// This describes the motion of a collidable over one step for TOI
/// computation. Motion is linear in position and constant angular velocity
/// about the collidable origin.
///////////////////////////////////////////////////////////////////////////////
type B3Sweep struct {
	P0 mgl64.Vec3 ///< world position at the start of the step
	P  mgl64.Vec3 ///< world position at the end of the step
	Q0 mgl64.Quat ///< world orientation at the start of the step

	/// Rotation vector accumulated over the whole step (angular velocity * dt).
	W mgl64.Vec3
}

func MakeB3Sweep(xf B3Transform, linearVelocity, angularVelocity mgl64.Vec3, dt float64) B3Sweep {
	return B3Sweep{
		P0: xf.P,
		P:  xf.P.Add(linearVelocity.Mul(dt)),
		Q0: xf.Q,
		W:  angularVelocity.Mul(dt),
	}
}

/// Get the interpolated transform at a specific time.
/// @param beta is a factor in [0,1], where 0 indicates the start of the step.
func (sweep B3Sweep) GetTransform(xf *B3Transform, beta float64) {
	xf.P = sweep.P0.Mul(1.0 - beta).Add(sweep.P.Mul(beta))

	angle := sweep.W.Len() * beta
	if angle < B3_epsilon {
		xf.Q = sweep.Q0
		return
	}
	xf.Q = B3QuatFromAxisAngle(sweep.W, angle).Mul(sweep.Q0).Normalize()
}

// GetTranslation returns the displacement over the whole step.
func (sweep B3Sweep) GetTranslation() mgl64.Vec3 {
	return sweep.P.Sub(sweep.P0)
}
