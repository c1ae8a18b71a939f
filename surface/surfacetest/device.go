// Package surfacetest provides an in-memory surface.Device for tests.
package surfacetest

import (
	"errors"
	"image"
	"image/color"

	"github.com/trgs-studio/nightreel/surface"
)

// ErrCompile is returned by CompileShader when FailCompile is set.
var ErrCompile = errors.New("surfacetest: compile failed")

// Draw records one quad draw call.
type Draw struct {
	Texture surface.Texture
	Shader  surface.Shader
	Quad    surface.Quad
	// Uniforms is a copy of the shader's uniforms at draw time.
	Uniforms map[string][]float32
}

// Device records every call made through surface.Device.
type Device struct {
	NotReady    bool
	FailCompile bool
	FailUpload  bool

	Shaders  map[surface.Shader]bool
	Textures map[surface.Texture]image.Rectangle
	Uniforms map[surface.Shader]map[string][]float32

	Fullscreen int
	Clears     int
	Draws      []Draw

	next uint32
}

// New returns a ready device.
func New() *Device {
	return &Device{
		Shaders:  make(map[surface.Shader]bool),
		Textures: make(map[surface.Texture]image.Rectangle),
		Uniforms: make(map[surface.Shader]map[string][]float32),
	}
}

// Ready implements surface.Device.
func (d *Device) Ready() bool { return !d.NotReady }

// CompileShader implements surface.Device.
func (d *Device) CompileShader(vertex, fragment string) (surface.Shader, error) {
	if d.FailCompile {
		return 0, ErrCompile
	}
	d.next++
	s := surface.Shader(d.next)
	d.Shaders[s] = true
	d.Uniforms[s] = make(map[string][]float32)
	return s, nil
}

// SetFloats implements surface.Device.
func (d *Device) SetFloats(s surface.Shader, name string, v ...float32) {
	u, ok := d.Uniforms[s]
	if !ok {
		return
	}
	u[name] = append([]float32(nil), v...)
}

// UploadTexture implements surface.Device.
func (d *Device) UploadTexture(img image.Image) (surface.Texture, error) {
	if d.FailUpload {
		return 0, errors.New("surfacetest: upload failed")
	}
	d.next++
	t := surface.Texture(d.next)
	d.Textures[t] = img.Bounds()
	return t, nil
}

// TextureSize implements surface.Device.
func (d *Device) TextureSize(t surface.Texture) (int, int) {
	r := d.Textures[t]
	return r.Dx(), r.Dy()
}

// Clear implements surface.Device. It also resets the recorded draws.
func (d *Device) Clear(color.RGBA) {
	d.Clears++
	d.Draws = d.Draws[:0]
}

// DrawFullscreen implements surface.Device.
func (d *Device) DrawFullscreen(s surface.Shader, w, h int) {
	if d.Shaders[s] {
		d.Fullscreen++
	}
}

// DrawQuad implements surface.Device.
func (d *Device) DrawQuad(t surface.Texture, s surface.Shader, q surface.Quad) {
	snap := make(map[string][]float32, len(d.Uniforms[s]))
	for k, v := range d.Uniforms[s] {
		snap[k] = v
	}
	d.Draws = append(d.Draws, Draw{Texture: t, Shader: s, Quad: q, Uniforms: snap})
}

// ReleaseShader implements surface.Device.
func (d *Device) ReleaseShader(s surface.Shader) {
	delete(d.Shaders, s)
	delete(d.Uniforms, s)
}

// ReleaseTexture implements surface.Device.
func (d *Device) ReleaseTexture(t surface.Texture) {
	delete(d.Textures, t)
}

// Live returns the number of handles not yet released.
func (d *Device) Live() int {
	return len(d.Shaders) + len(d.Textures)
}

// Uniform returns the last value written to name on any live shader.
func (d *Device) Uniform(s surface.Shader, name string) []float32 {
	return d.Uniforms[s][name]
}

// Host is a fixed-size host.
type Host struct {
	W, H int
	// Unobservable disables native size polling.
	Unobservable bool
}

// Size implements surface.Host.
func (h *Host) Size() (int, int) { return h.W, h.H }

// Observable reports whether size changes can be polled.
func (h *Host) Observable() bool { return !h.Unobservable }
