package flowvis

import "fmt"

// Curl returns the rotation field of f. See CurlInto.
func Curl(f *VectorField) CurlField {
	c := NewCurlField(f.W, f.H)
	CurlInto(&c, f)
	return c
}

// CurlInto writes the centered-difference rotation of f into dst:
//
//	C(x,y) = (Fy(x-1,y) - Fy(x+1,y)) - (Fx(x,y-1) - Fx(x,y+1))
//
// Border cells are set to zero. Fields narrower than 3 cells in either
// direction have no interior and come out all zero.
func CurlInto(dst *CurlField, f *VectorField) {
	if dst.W != f.W || dst.H != f.H || len(dst.Data) != len(f.Data) {
		panic(fmt.Sprintf("curl destination %dx%d does not match field %dx%d", dst.W, dst.H, f.W, f.H))
	}
	w, h := f.W, f.H
	for y := 0; y < h; y++ {
		row := dst.Data[y*w : (y+1)*w]
		if y == 0 || y == h-1 {
			for x := range row {
				row[x] = 0
			}
			continue
		}
		row[0] = 0
		row[w-1] = 0
		for x := 1; x < w-1; x++ {
			left, right := f.At(x-1, y), f.At(x+1, y)
			up, down := f.At(x, y-1), f.At(x, y+1)
			row[x] = (left.Y - right.Y) - (up.X - down.X)
		}
	}
}
