package vec

// Vec2 представляет горизонтальные координаты колонны блоков (X, Z)
type Vec2 struct {
	X, Z int
}

// ToChunkCoords преобразует глобальные координаты в координаты чанка
func (v Vec2) ToChunkCoords() Vec2 {
	return Vec2{X: v.X >> 4, Z: v.Z >> 4} // Деление на 16
}

// LocalInChunk возвращает локальные координаты внутри чанка
func (v Vec2) LocalInChunk() Vec2 {
	return Vec2{X: v.X & 0xF, Z: v.Z & 0xF} // Модуль 16
}
