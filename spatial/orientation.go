// SPDX-License-Identifier: EPL-2.0

package spatial

// Orientation is a world-space origin plus an orthonormal basis.
// Listener-local space puts Right on +X, Up on +Y and Ahead on -Z.
type Orientation struct {
	Origin Vec3
	Right  Vec3
	Up     Vec3
	Ahead  Vec3
}

// Identity returns an unrotated orientation at origin, looking down -Z.
func Identity(origin Vec3) Orientation {
	return Orientation{
		Origin: origin,
		Right:  V(1, 0, 0),
		Up:     V(0, 1, 0),
		Ahead:  V(0, 0, -1),
	}
}

// LookAt builds an orientation at eye facing target. up is a hint and need
// not be orthogonal to the view direction. Degenerate input (eye == target,
// or up parallel to the view) falls back to the identity basis axes.
func LookAt(eye, target, up Vec3) Orientation {
	ahead := target.Sub(eye).NormalizeOrZero()
	if ahead == Zero {
		return Identity(eye)
	}

	right := ahead.Cross(up).NormalizeOrZero()
	if right == Zero {
		// up is parallel to ahead; pick any perpendicular
		right = ahead.Cross(V(1, 0, 0)).NormalizeOrZero()
		if right == Zero {
			right = ahead.Cross(V(0, 0, 1)).NormalizeOrZero()
		}
	}

	return Orientation{
		Origin: eye,
		Right:  right,
		Up:     right.Cross(ahead),
		Ahead:  ahead,
	}
}

// ToLocal transforms a world-space point into this orientation's local
// space.
func (o Orientation) ToLocal(p Vec3) Vec3 {
	d := p.Sub(o.Origin)
	return Vec3{
		X: d.Dot(o.Right),
		Y: d.Dot(o.Up),
		Z: -d.Dot(o.Ahead),
	}
}

// DirectionTo returns the normalized listener-local direction towards p, or
// the zero vector when p coincides with the origin.
func (o Orientation) DirectionTo(p Vec3) Vec3 {
	return o.ToLocal(p).NormalizeOrZero()
}
