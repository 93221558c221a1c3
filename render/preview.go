package render

import (
	"errors"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"gonum.org/v1/gonum/spatial/r3"
)

// View positions the camera of a preview. The mesh is first fitted in a
// bi-unit cube centred at the origin so positions are in that frame.
type View struct {
	// what position (point) to look at
	LookAt r3.Vec
	// which way is up (direction)
	Up r3.Vec
	// where the camera/eye located at (point)
	Eye       r3.Vec
	Near, Far float64
	// Width and Height of the output image in pixels.
	Width, Height int
	// Supersampling factor, 1 disables it.
	Scale int
}

// DefaultView is an isometric view looking down on a mold lying along Z.
var DefaultView = View{
	Up:     r3.Vec{Z: 1},
	Eye:    r3.Vec{X: 2.4, Y: 2.4, Z: 2.4},
	Near:   1,
	Far:    10,
	Width:  640,
	Height: 480,
	Scale:  2,
}

// STLToPNG renders the STL file at stlPath to a shaded PNG at pngPath.
func STLToPNG(stlPath, pngPath string, view View) error {
	if view.Width <= 0 || view.Height <= 0 {
		return errors.New("preview size must be positive")
	}
	if view.Scale < 1 {
		view.Scale = 1
	}
	mesh, err := fauxgl.LoadSTL(stlPath)
	if err != nil {
		return err
	}
	const fovy = 30 // vertical field of view in degrees
	var (
		eye    = fauxgl.V(view.Eye.X, view.Eye.Y, view.Eye.Z)
		center = fauxgl.V(view.LookAt.X, view.LookAt.Y, view.LookAt.Z)
		up     = fauxgl.V(view.Up.X, view.Up.Y, view.Up.Z)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
		color  = fauxgl.HexColor("#468966")
	)
	mesh.BiUnitCube()
	context := fauxgl.NewContext(view.Width*view.Scale, view.Height*view.Scale)
	context.ClearColorBufferWith(fauxgl.HexColor("#FFF8E3"))
	aspect := float64(view.Width) / float64(view.Height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(fovy, aspect, view.Near, view.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = color
	context.Shader = shader
	context.DrawMesh(mesh)
	// downsample image for antialiasing
	image := context.Image()
	image = resize.Resize(uint(view.Width), uint(view.Height), image, resize.Bilinear)
	return fauxgl.SavePNG(pngPath, image)
}
