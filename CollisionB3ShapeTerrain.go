package box3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

/// A height field on the local XZ plane with +Y up. Samples are row major:
/// row r runs along +Z, column c along +X. Every grid cell is split into
/// two triangles facing +Y. Terrain is static only.
type B3TerrainShape struct {
	B3Shape

	M_heights []float64
	M_rows    int
	M_columns int

	/// Cell size along X, height multiplier, cell size along Z.
	M_scale mgl64.Vec3

	M_minHeight float64
	M_maxHeight float64
}

func MakeB3TerrainShape(heights []float64, rows, columns int, scale mgl64.Vec3) B3TerrainShape {
	B3Assert(rows >= 2 && columns >= 2)
	B3Assert(len(heights) == rows*columns)
	B3Assert(scale[0] > 0.0 && scale[2] > 0.0)

	terrain := B3TerrainShape{
		B3Shape: B3Shape{
			M_type:   B3Shape_Type.E_terrain,
			M_radius: 0.0,
		},
		M_heights:   append([]float64(nil), heights...),
		M_rows:      rows,
		M_columns:   columns,
		M_scale:     scale,
		M_minHeight: B3_maxFloat,
		M_maxHeight: -B3_maxFloat,
	}

	for _, h := range heights {
		y := h * scale[1]
		terrain.M_minHeight = math.Min(terrain.M_minHeight, y)
		terrain.M_maxHeight = math.Max(terrain.M_maxHeight, y)
	}

	return terrain
}

func NewB3TerrainShape(heights []float64, rows, columns int, scale mgl64.Vec3) *B3TerrainShape {
	res := MakeB3TerrainShape(heights, rows, columns, scale)
	return &res
}

func (terrain B3TerrainShape) Clone() B3ShapeInterface {
	return NewB3TerrainShape(terrain.M_heights, terrain.M_rows, terrain.M_columns, terrain.M_scale)
}

func (terrain B3TerrainShape) GetChildCount() int {
	return 2 * (terrain.M_rows - 1) * (terrain.M_columns - 1)
}

func (terrain B3TerrainShape) GetVertex(row, column int) mgl64.Vec3 {
	return mgl64.Vec3{
		float64(column) * terrain.M_scale[0],
		terrain.M_heights[row*terrain.M_columns+column] * terrain.M_scale[1],
		float64(row) * terrain.M_scale[2],
	}
}

func (terrain B3TerrainShape) getLocalBounds() B3AABB {
	return B3AABB{
		LowerBound: mgl64.Vec3{0.0, terrain.M_minHeight, 0.0},
		UpperBound: mgl64.Vec3{
			float64(terrain.M_columns-1) * terrain.M_scale[0],
			terrain.M_maxHeight,
			float64(terrain.M_rows-1) * terrain.M_scale[2],
		},
	}
}

func (terrain B3TerrainShape) ComputeAABB(aabb *B3AABB, xf B3Transform) {
	*aabb = terrain.getLocalBounds().Transformed(xf)
}

func (terrain B3TerrainShape) GetMinimumRadius() float64 {
	return 0.0
}

func (terrain B3TerrainShape) GetMaximumRadius() float64 {
	bounds := terrain.getLocalBounds()
	return B3Vec3Max(B3Vec3Abs(bounds.LowerBound), B3Vec3Abs(bounds.UpperBound)).Len()
}

func (terrain B3TerrainShape) GetTriangle(index int) B3Triangle {
	B3Assert(0 <= index && index < terrain.GetChildCount())

	cell := index / 2
	row := cell / (terrain.M_columns - 1)
	column := cell % (terrain.M_columns - 1)

	v00 := terrain.GetVertex(row, column)
	v10 := terrain.GetVertex(row, column+1)
	v01 := terrain.GetVertex(row+1, column)

	triangle := B3Triangle{Index: index}
	if index%2 == 0 {
		triangle.Vertices = [3]mgl64.Vec3{v00, v01, v10}
	} else {
		v11 := terrain.GetVertex(row+1, column+1)
		triangle.Vertices = [3]mgl64.Vec3{v10, v01, v11}
	}
	return triangle
}

func (terrain B3TerrainShape) QueryTriangles(buffer *B3TriangleBuffer, localAABB B3AABB) {
	if localAABB.UpperBound[1] < terrain.M_minHeight || localAABB.LowerBound[1] > terrain.M_maxHeight {
		return
	}

	clampCell := func(v float64, size float64, count int) int {
		i := int(math.Floor(v / size))
		if i < 0 {
			return 0
		}
		if i > count-2 {
			return count - 2
		}
		return i
	}

	if localAABB.UpperBound[0] < 0.0 || localAABB.UpperBound[2] < 0.0 {
		return
	}
	bounds := terrain.getLocalBounds()
	if localAABB.LowerBound[0] > bounds.UpperBound[0] || localAABB.LowerBound[2] > bounds.UpperBound[2] {
		return
	}

	c0 := clampCell(localAABB.LowerBound[0], terrain.M_scale[0], terrain.M_columns)
	c1 := clampCell(localAABB.UpperBound[0], terrain.M_scale[0], terrain.M_columns)
	r0 := clampCell(localAABB.LowerBound[2], terrain.M_scale[2], terrain.M_rows)
	r1 := clampCell(localAABB.UpperBound[2], terrain.M_scale[2], terrain.M_rows)

	for row := r0; row <= r1; row++ {
		for column := c0; column <= c1; column++ {
			cell := row*(terrain.M_columns-1) + column
			for k := 0; k < 2; k++ {
				triangle := terrain.GetTriangle(2*cell + k)
				bounds := MakeB3AABBFromPoints(triangle.Vertices[:]...)
				if B3TestOverlapBoundingBoxes(bounds, localAABB) {
					buffer.Triangles = append(buffer.Triangles, triangle)
				}
			}
		}
	}
}
