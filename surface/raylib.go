package surface

import (
	"fmt"
	"image"
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// VertexShader is the pass-through program matching raylib's default
// attribute and uniform names.
const VertexShader = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec4 vertexColor;
uniform mat4 mvp;
out vec2 fragTexCoord;
out vec4 fragColor;
void main() {
    fragTexCoord = vertexTexCoord;
    fragColor = vertexColor;
    gl_Position = mvp * vec4(vertexPosition, 1.0);
}
`

type rlShader struct {
	shader rl.Shader
	locs   map[string]int32
}

// RaylibDevice draws through raylib. It must be used from the thread that
// created the window.
type RaylibDevice struct {
	shaders  map[Shader]*rlShader
	textures map[Texture]rl.Texture2D
	next     uint32
}

// NewRaylibDevice creates a device for the current raylib window.
func NewRaylibDevice() *RaylibDevice {
	return &RaylibDevice{
		shaders:  make(map[Shader]*rlShader),
		textures: make(map[Texture]rl.Texture2D),
	}
}

// Ready reports whether the raylib window (and its GL context) exists.
func (d *RaylibDevice) Ready() bool { return rl.IsWindowReady() }

// CompileShader implements Device.
func (d *RaylibDevice) CompileShader(vertex, fragment string) (Shader, error) {
	if vertex == "" {
		vertex = VertexShader
	}
	sh := rl.LoadShaderFromMemory(vertex, fragment)
	if sh.ID == 0 {
		return 0, fmt.Errorf("raylib: shader failed to compile")
	}
	d.next++
	id := Shader(d.next)
	d.shaders[id] = &rlShader{shader: sh, locs: make(map[string]int32)}
	return id, nil
}

func (d *RaylibDevice) location(s *rlShader, name string) int32 {
	loc, ok := s.locs[name]
	if !ok {
		loc = rl.GetShaderLocation(s.shader, name)
		s.locs[name] = loc
	}
	return loc
}

// SetFloats implements Device.
func (d *RaylibDevice) SetFloats(s Shader, name string, v ...float32) {
	sh, ok := d.shaders[s]
	if !ok || len(v) == 0 {
		return
	}
	loc := d.location(sh, name)
	if loc < 0 {
		return
	}
	var kind rl.ShaderUniformDataType
	switch len(v) {
	case 1:
		kind = rl.ShaderUniformFloat
	case 2:
		kind = rl.ShaderUniformVec2
	case 3:
		kind = rl.ShaderUniformVec3
	default:
		kind = rl.ShaderUniformVec4
		v = v[:4]
	}
	rl.SetShaderValue(sh.shader, loc, v, kind)
}

// UploadTexture implements Device.
func (d *RaylibDevice) UploadTexture(img image.Image) (Texture, error) {
	if img == nil || img.Bounds().Empty() {
		return 0, fmt.Errorf("raylib: empty image")
	}
	cpu := rl.NewImageFromImage(img)
	defer rl.UnloadImage(cpu)
	tex := rl.LoadTextureFromImage(cpu)
	if tex.ID == 0 {
		return 0, fmt.Errorf("raylib: texture upload failed")
	}
	rl.GenTextureMipmaps(&tex)
	rl.SetTextureFilter(tex, rl.FilterTrilinear)
	d.next++
	id := Texture(d.next)
	d.textures[id] = tex
	return id, nil
}

// TextureSize implements Device.
func (d *RaylibDevice) TextureSize(t Texture) (int, int) {
	tex, ok := d.textures[t]
	if !ok {
		return 0, 0
	}
	return int(tex.Width), int(tex.Height)
}

// Clear implements Device.
func (d *RaylibDevice) Clear(c color.RGBA) {
	rl.ClearBackground(c)
}

// DrawFullscreen implements Device.
func (d *RaylibDevice) DrawFullscreen(s Shader, w, h int) {
	sh, ok := d.shaders[s]
	if !ok {
		return
	}
	rl.BeginShaderMode(sh.shader)
	rl.DrawRectangle(0, 0, int32(w), int32(h), rl.White)
	rl.EndShaderMode()
}

// DrawQuad implements Device.
func (d *RaylibDevice) DrawQuad(t Texture, s Shader, q Quad) {
	tex, ok := d.textures[t]
	if !ok {
		return
	}
	src := rl.Rectangle{Width: float32(tex.Width), Height: float32(tex.Height)}
	dst := rl.Rectangle{X: q.CenterX, Y: q.CenterY, Width: q.Width, Height: q.Height}
	origin := rl.Vector2{X: q.Width / 2, Y: q.Height / 2}
	// raylib rotates clockwise in degrees on a y-down screen.
	deg := -q.Rotation * 180 / math.Pi

	if sh, ok := d.shaders[s]; ok {
		rl.BeginShaderMode(sh.shader)
		rl.DrawTexturePro(tex, src, dst, origin, deg, q.Tint)
		rl.EndShaderMode()
		return
	}
	rl.DrawTexturePro(tex, src, dst, origin, deg, q.Tint)
}

// ReleaseShader implements Device.
func (d *RaylibDevice) ReleaseShader(s Shader) {
	sh, ok := d.shaders[s]
	if !ok {
		return
	}
	rl.UnloadShader(sh.shader)
	delete(d.shaders, s)
}

// ReleaseTexture implements Device.
func (d *RaylibDevice) ReleaseTexture(t Texture) {
	tex, ok := d.textures[t]
	if !ok {
		return
	}
	rl.UnloadTexture(tex)
	delete(d.textures, t)
}

// WindowHost reports the raylib window's render size.
type WindowHost struct{}

// Size implements Host.
func (WindowHost) Size() (int, int) {
	if !rl.IsWindowReady() {
		return 0, 0
	}
	return rl.GetScreenWidth(), rl.GetScreenHeight()
}

// Observable reports that window size changes can be polled directly.
func (WindowHost) Observable() bool { return true }
