package shadeflowaux

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// Column-major 4x4 matrix helpers for the preview camera. Layouts match
// what glUniformMatrix4fv expects without transposition.

func matIdentity() (m [16]float32) {
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
	return m
}

func matPerspective(fovy, aspect, near, far float32) (m [16]float32) {
	tanHalf := math32.Tan(fovy / 2)
	m[0] = 1 / (aspect * tanHalf)
	m[5] = 1 / tanHalf
	m[10] = -(far + near) / (far - near)
	m[11] = -1
	m[14] = -(2 * far * near) / (far - near)
	return m
}

func matLookAt(eye, center, up ms3.Vec) (m [16]float32) {
	f := ms3.Unit(ms3.Sub(center, eye))
	s := ms3.Unit(ms3.Vec{
		X: f.Y*up.Z - f.Z*up.Y,
		Y: f.Z*up.X - f.X*up.Z,
		Z: f.X*up.Y - f.Y*up.X,
	})
	u := ms3.Vec{
		X: s.Y*f.Z - s.Z*f.Y,
		Y: s.Z*f.X - s.X*f.Z,
		Z: s.X*f.Y - s.Y*f.X,
	}
	m[0], m[4], m[8], m[12] = s.X, s.Y, s.Z, -ms3.Dot(s, eye)
	m[1], m[5], m[9], m[13] = u.X, u.Y, u.Z, -ms3.Dot(u, eye)
	m[2], m[6], m[10], m[14] = -f.X, -f.Y, -f.Z, ms3.Dot(f, eye)
	m[15] = 1
	return m
}

func matRotateY(angle float32) (m [16]float32) {
	m = matIdentity()
	c, s := math32.Cos(angle), math32.Sin(angle)
	m[0], m[8] = c, s
	m[2], m[10] = -s, c
	return m
}

func matRotateX(angle float32) (m [16]float32) {
	m = matIdentity()
	c, s := math32.Cos(angle), math32.Sin(angle)
	m[5], m[9] = c, -s
	m[6], m[10] = s, c
	return m
}

func matMul(a, b [16]float32) (m [16]float32) {
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var acc float32
			for k := 0; k < 4; k++ {
				acc += a[k*4+j] * b[i*4+k]
			}
			m[i*4+j] = acc
		}
	}
	return m
}
