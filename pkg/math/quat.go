package math

import "github.com/chewxy/math32"

// Quat represents a quaternion for 3D rotations.
// Components are stored as X, Y, Z, W where W is the scalar part.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns an identity quaternion (no rotation).
func QuatIdentity() Quat {
	return Quat{X: 0, Y: 0, Z: 0, W: 1}
}

// Normalize returns a normalized quaternion.
func (q Quat) Normalize() Quat {
	length := math32.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if length < 0.0001 {
		return QuatIdentity()
	}
	invLen := 1.0 / length
	return Quat{
		X: q.X * invLen,
		Y: q.Y * invLen,
		Z: q.Z * invLen,
		W: q.W * invLen,
	}
}

// Rotator is an Euler rotation in degrees.
// Pitch turns about Y, Yaw about Z and Roll about X.
type Rotator struct {
	Pitch float32 `yaml:"pitch"`
	Yaw   float32 `yaml:"yaw"`
	Roll  float32 `yaml:"roll"`
}

// Quaternion converts the rotator to a quaternion.
func (r Rotator) Quaternion() Quat {
	const halfDegToRad = math32.Pi / 180 / 2
	sp, cp := math32.Sin(r.Pitch*halfDegToRad), math32.Cos(r.Pitch*halfDegToRad)
	sy, cy := math32.Sin(r.Yaw*halfDegToRad), math32.Cos(r.Yaw*halfDegToRad)
	sr, cr := math32.Sin(r.Roll*halfDegToRad), math32.Cos(r.Roll*halfDegToRad)

	return Quat{
		X: cr*sp*sy - sr*cp*cy,
		Y: -cr*sp*cy - sr*cp*sy,
		Z: cr*cp*sy - sr*sp*cy,
		W: cr*cp*cy + sr*sp*sy,
	}
}
