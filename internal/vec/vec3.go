package vec

import "fmt"

// Vec3 позиция блока в мире. Y - вертикальная ось.
type Vec3 struct {
	X int
	Y int
	Z int
}

// Column возвращает горизонтальную колонну блока
func (v Vec3) Column() Vec2 {
	return Vec2{X: v.X, Z: v.Z}
}

// Add складывает два вектора
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

// Up возвращает позицию, смещённую по вертикали на dy
func (v Vec3) Up(dy int) Vec3 {
	return Vec3{X: v.X, Y: v.Y + dy, Z: v.Z}
}

// Center возвращает центр блока
func (v Vec3) Center() Vec3Float {
	return Vec3Float{X: float64(v.X) + 0.5, Y: float64(v.Y) + 0.5, Z: float64(v.Z) + 0.5}
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%d,%d,%d)", v.X, v.Y, v.Z)
}
