package grid

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	xdraw "golang.org/x/image/draw"
)

// WriteOccupancyPNG renders one z slice of the grid as a grayscale PNG, one
// cell per voxel scaled up by scale, brightness proportional to the voxel's
// primitive count. Debug aid for eyeballing binning quality.
func (g *Grid) WriteOccupancyPNG(w io.Writer, zSlice, scale int) error {
	if zSlice < 0 || zSlice >= g.nVoxels[2] {
		return fmt.Errorf("grid: z slice %d out of range [0, %d)", zSlice, g.nVoxels[2])
	}
	if scale < 1 {
		scale = 1
	}

	maxCount := 0
	for y := 0; y < g.nVoxels[1]; y++ {
		for x := 0; x < g.nVoxels[0]; x++ {
			if n := len(g.voxels[g.offset(x, y, zSlice)].prims); n > maxCount {
				maxCount = n
			}
		}
	}

	src := image.NewGray(image.Rect(0, 0, g.nVoxels[0], g.nVoxels[1]))
	for y := 0; y < g.nVoxels[1]; y++ {
		for x := 0; x < g.nVoxels[0]; x++ {
			n := len(g.voxels[g.offset(x, y, zSlice)].prims)
			v := uint8(0)
			if maxCount > 0 {
				v = uint8(255 * n / maxCount)
			}
			src.SetGray(x, y, color.Gray{Y: v})
		}
	}

	dst := image.NewGray(image.Rect(0, 0, g.nVoxels[0]*scale, g.nVoxels[1]*scale))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	if err := png.Encode(w, dst); err != nil {
		return fmt.Errorf("failed to encode occupancy image: %w", err)
	}
	return nil
}
