package batch

import (
	"foveal-renderer/internal/mathutil"
	"foveal-renderer/internal/mesh"
	"foveal-renderer/internal/raster"
	"foveal-renderer/internal/shading"
)

// Background is the clear color of rendered frames.
var Background = [4]float64{0.05, 0.05, 0.08, 1}

var floorMaterial = shading.Material{
	Ambient:   mathutil.Vec3{0.35, 0.35, 0.35},
	Diffuse:   mathutil.Vec3{0.55, 0.55, 0.5},
	Specular:  mathutil.Vec3{0.1, 0.1, 0.1},
	Shininess: 4,
}

// DemoScene returns three spheres at different depths standing on a floor
// plane, all around the model origin. Spheres use mat; the floor is gray.
// Sizes are in mm to match the default display and view distance.
func DemoScene(mat shading.Material) []raster.Object {
	const radius = 40.0
	floor := mesh.Plane(800, 8).Transformed(mathutil.Translate(mathutil.Vec3{0, -radius, 0}))
	objects := []raster.Object{{Mesh: floor, Material: floorMaterial}}

	for i, pos := range []mathutil.Vec3{{-110, 0, 250}, {0, 0, 0}, {110, 0, -250}} {
		m := mat
		// Tint each sphere slightly so they stay distinguishable.
		m.Diffuse = m.Diffuse.Mul(mathutil.Vec3{1 - 0.2*float64(i), 1, 0.8 + 0.2*float64(i)})
		sphere := mesh.UVSphere(radius, 24, 36).Transformed(mathutil.Translate(pos))
		objects = append(objects, raster.Object{Mesh: sphere, Material: m})
	}
	return objects
}
