// Package renderer draws the tessellated surface as a red/cyan anaglyph
// using OpenGL 4.1 core.
package renderer

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/kiss-anaglyph/internal/engine/frame"
	"github.com/Faultbox/kiss-anaglyph/internal/engine/shader"
	"github.com/Faultbox/kiss-anaglyph/internal/logger"
	"github.com/Faultbox/kiss-anaglyph/internal/surface"
)

// Config holds renderer configuration.
type Config struct {
	Width     int
	Height    int
	Wireframe bool // Draw triangle edges over the filled surface
	Shading   Shading
}

// Colors used by the passes, RGBA.
var (
	FillColor   = [4]float32{0.5, 0.5, 0.5, 1}
	EdgeColor   = [4]float32{1, 1, 1, 1}
	MarkerColor = [4]float32{1, 0.8, 0, 1}
	ClearColor  = [4]float32{0, 0, 0, 1}
)

// Renderer implements frame.Backend on the current GL context.
type Renderer struct {
	config Config

	program     uint32
	uModelView  int32
	uProjection int32
	uColor      int32
	uShade      int32

	uNormalMapping int32
	uSpecular      int32
	uTexRotation   int32
	uTexPoint      int32
	uTexTiles      int32
	uNormalMap     int32

	normalMap    uint32
	normalSource *image.RGBA // Map requested by the last SetShading, nil for the built-in one

	surface meshBuffers
	marker  meshBuffers
}

var _ frame.Backend = (*Renderer)(nil)

// New creates a new renderer.
// Must be called after the OpenGL context is created.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{config: cfg}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(ClearColor[0], ClearColor[1], ClearColor[2], ClearColor[3])

	var err error
	r.program, err = shader.CompileProgram(surfaceVertexShader, surfaceFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	r.uModelView = shader.GetUniform(r.program, "uModelView")
	r.uProjection = shader.GetUniform(r.program, "uProjection")
	r.uColor = shader.GetUniform(r.program, "uColor")
	r.uShade = shader.GetUniform(r.program, "uShade")
	r.uNormalMapping = shader.GetUniform(r.program, "uNormalMapping")
	r.uSpecular = shader.GetUniform(r.program, "uSpecular")
	r.uTexRotation = shader.GetUniform(r.program, "uTexRotation")
	r.uTexPoint = shader.GetUniform(r.program, "uTexPoint")
	r.uTexTiles = shader.GetUniform(r.program, "uTexTiles")
	r.uNormalMap = shader.GetUniform(r.program, "uNormalMap")

	if err := r.SetShading(cfg.Shading); err != nil {
		gl.DeleteProgram(r.program)
		return nil, err
	}

	r.Resize(cfg.Width, cfg.Height)
	logger.Debug("shader program created", zap.Uint32("program", r.program))
	return r, nil
}

// Close releases GPU resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	r.surface.release()
	r.marker.release()
	if r.normalMap != 0 {
		gl.DeleteTextures(1, &r.normalMap)
		r.normalMap = 0
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
		r.program = 0
	}
}

// Resize updates the viewport.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// SetWireframe enables or disables the edge overlay.
func (r *Renderer) SetWireframe(on bool) {
	r.config.Wireframe = on
}

// SetNormalMapping enables or disables normal-mapped shading of the surface.
func (r *Renderer) SetNormalMapping(on bool) {
	r.config.Shading.NormalMapping = on
}

// SetShading replaces the shading settings. The normal map is uploaded
// when it differs from the current one; a nil map selects the built-in
// ripple map. On failure the previous settings stay.
func (r *Renderer) SetShading(sh Shading) error {
	if r.normalMap == 0 || sh.NormalMap != r.normalSource {
		if err := r.loadNormalMap(sh.NormalMap); err != nil {
			return err
		}
	}
	r.config.Shading = sh
	return nil
}

func (r *Renderer) loadNormalMap(img *image.RGBA) error {
	src := img
	if img == nil {
		img = DefaultNormalMap()
	}
	id, err := uploadTexture(img)
	if err != nil {
		return fmt.Errorf("uploading normal map: %w", err)
	}
	if r.normalMap != 0 {
		gl.DeleteTextures(1, &r.normalMap)
	}
	r.normalMap = id
	r.normalSource = src
	logger.Debug("normal map uploaded",
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
		zap.Bool("builtin", src == nil),
	)
	return nil
}

// UploadMesh replaces the surface buffers with m.
func (r *Renderer) UploadMesh(m *surface.Mesh) error {
	if err := r.surface.upload(m); err != nil {
		return fmt.Errorf("uploading surface: %w", err)
	}
	logger.Debug("surface uploaded",
		zap.Int("vertices", len(m.Vertices)),
		zap.Int("indices", len(m.Indices)),
	)
	return nil
}

// UploadMarker replaces the sound source marker buffers with m.
func (r *Renderer) UploadMarker(m *surface.Mesh) error {
	if err := r.marker.upload(m); err != nil {
		return fmt.Errorf("uploading marker: %w", err)
	}
	return nil
}

// DrawFrame clears the target and draws both eye passes.
func (r *Renderer) DrawFrame(f frame.Frame) {
	gl.ColorMask(true, true, true, true)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.UseProgram(r.program)
	r.setShading()
	for _, eye := range f.Eyes {
		r.drawEye(eye, f.Marker)
	}

	gl.Disable(gl.POLYGON_OFFSET_FILL)
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	gl.ColorMask(true, true, true, true)
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)
}

// ReadPixels returns the back buffer as RGBA rows, bottom row first,
// along with its size. Call it after DrawFrame and before swapping.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadBuffer(gl.BACK)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}

func (r *Renderer) drawEye(eye frame.EyePass, marker bool) {
	if eye.ClearDepth {
		gl.Clear(gl.DEPTH_BUFFER_BIT)
	}
	m := eye.ColorMask
	gl.ColorMask(m.R, m.G, m.B, m.A)
	gl.UniformMatrix4fv(r.uProjection, 1, false, eye.Projection.Ptr())

	// Filled faces are pushed back so the edges drawn on top win the depth test.
	gl.UniformMatrix4fv(r.uModelView, 1, false, eye.ModelView.Ptr())
	gl.Enable(gl.POLYGON_OFFSET_FILL)
	gl.PolygonOffset(1, 0)
	r.surface.draw(r, FillColor, true, r.config.Shading.NormalMapping)
	gl.Disable(gl.POLYGON_OFFSET_FILL)

	if r.config.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		r.surface.draw(r, EdgeColor, false, false)
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}

	if marker {
		gl.UniformMatrix4fv(r.uModelView, 1, false, eye.MarkerModelView.Ptr())
		r.marker.draw(r, MarkerColor, true, false)
	}
}

// setShading loads the per-frame texture uniforms and binds the normal map
// to unit 0.
func (r *Renderer) setShading() {
	sh := r.config.Shading
	rot := sh.Texture.Rotation()
	gl.UniformMatrix2fv(r.uTexRotation, 1, false, &rot[0])
	gl.Uniform2f(r.uTexPoint, sh.Texture.Point[0], sh.Texture.Point[1])
	gl.Uniform2f(r.uTexTiles, sh.Texture.Tiles[0], sh.Texture.Tiles[1])
	gl.Uniform1f(r.uSpecular, sh.Specular)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.normalMap)
	gl.Uniform1i(r.uNormalMap, 0)
}

func (r *Renderer) setColor(c [4]float32, shade, mapped bool) {
	gl.Uniform4f(r.uColor, c[0], c[1], c[2], c[3])
	gl.Uniform1f(r.uShade, flag(shade))
	gl.Uniform1f(r.uNormalMapping, flag(mapped))
}

func flag(on bool) float32 {
	if on {
		return 1
	}
	return 0
}
