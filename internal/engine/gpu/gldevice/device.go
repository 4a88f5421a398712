// Package gldevice implements gpu.Device on an OpenGL 4.1 core context.
// Every call must come from the goroutine that owns the context.
package gldevice

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/airbrush/internal/engine/geometry"
	"github.com/Faultbox/airbrush/internal/engine/gpu"
	"github.com/Faultbox/airbrush/internal/logger"
)

// glFormat is how a gpu.Format maps onto TexImage2D arguments.
type glFormat struct {
	internal int32
	format   uint32
	xtype    uint32
}

var glFormats = map[gpu.Format]glFormat{
	gpu.FormatR8:      {gl.R8, gl.RED, gl.UNSIGNED_BYTE},
	gpu.FormatRGBA8:   {gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE},
	gpu.FormatRGBA16F: {gl.RGBA16F, gl.RGBA, gl.HALF_FLOAT},
	gpu.FormatDepth16: {gl.DEPTH_COMPONENT16, gl.DEPTH_COMPONENT, gl.FLOAT},
}

var glFactors = map[gpu.BlendFactor]uint32{
	gpu.FactorZero: gl.ZERO,
	gpu.FactorOne:  gl.ONE,
}

type texture struct {
	id   uint32
	desc gpu.TextureDesc
}

type framebuffer struct {
	fbo    uint32
	width  int32
	height int32
}

type mesh struct {
	vao   uint32
	vbo   uint32
	ebo   uint32
	count int32
}

// Device owns every GL object the pipeline creates.
type Device struct {
	next         gpu.Handle
	textures     map[gpu.Handle]*texture
	framebuffers map[gpu.Handle]*framebuffer
	meshes       map[gpu.Handle]*mesh
	locations    map[gpu.Handle]map[string]int32

	displayWidth  int32
	displayHeight int32
	log           *zap.Logger
}

// New wraps the current context. width and height are the drawable size of
// the default framebuffer.
func New(width, height int) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initializing OpenGL: %w", err)
	}
	d := &Device{
		textures:     make(map[gpu.Handle]*texture),
		framebuffers: make(map[gpu.Handle]*framebuffer),
		meshes:       make(map[gpu.Handle]*mesh),
		locations:    make(map[gpu.Handle]map[string]int32),
		log:          logger.Named("gl"),
	}
	d.SetDisplaySize(width, height)
	d.log.Info("OpenGL ready",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))
	return d, nil
}

// SetDisplaySize records the drawable size used when the display is bound.
func (d *Device) SetDisplaySize(width, height int) {
	d.displayWidth = int32(max(width, 1))
	d.displayHeight = int32(max(height, 1))
}

func (d *Device) handle() gpu.Handle {
	d.next++
	return d.next
}

// CreateTexture allocates storage with nearest filtering and clamp-to-edge
// wrapping.
func (d *Device) CreateTexture(desc gpu.TextureDesc) (gpu.Handle, error) {
	if err := desc.Validate(); err != nil {
		return 0, err
	}
	f := glFormats[desc.Format]

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, f.internal, int32(desc.Width), int32(desc.Height), 0, f.format, f.xtype, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	h := d.handle()
	d.textures[h] = &texture{id: id, desc: desc}
	return h, nil
}

// CreateFramebuffer attaches color and depth textures and checks
// completeness.
func (d *Device) CreateFramebuffer(color, depth gpu.Handle) (gpu.Handle, error) {
	if color == 0 && depth == 0 {
		return 0, fmt.Errorf("%w: no attachments", gpu.ErrIncompleteFramebuffer)
	}

	fb := &framebuffer{}
	gl.GenFramebuffers(1, &fb.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)

	fail := func(err error) (gpu.Handle, error) {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.DeleteFramebuffers(1, &fb.fbo)
		return 0, err
	}

	if color != 0 {
		t, ok := d.textures[color]
		if !ok {
			return fail(fmt.Errorf("%w: color %d", gpu.ErrUnknownHandle, color))
		}
		info, _ := t.desc.Format.Info()
		if info.Depth {
			return fail(fmt.Errorf("%w: %s is not a color format", gpu.ErrIncompleteFramebuffer, t.desc.Format))
		}
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.id, 0)
		fb.width, fb.height = int32(t.desc.Width), int32(t.desc.Height)
	} else {
		gl.DrawBuffer(gl.NONE)
		gl.ReadBuffer(gl.NONE)
	}

	if depth != 0 {
		t, ok := d.textures[depth]
		if !ok {
			return fail(fmt.Errorf("%w: depth %d", gpu.ErrUnknownHandle, depth))
		}
		info, _ := t.desc.Format.Info()
		if !info.Depth {
			return fail(fmt.Errorf("%w: %s is not a depth format", gpu.ErrIncompleteFramebuffer, t.desc.Format))
		}
		if color != 0 && (int32(t.desc.Width) != fb.width || int32(t.desc.Height) != fb.height) {
			return fail(fmt.Errorf("%w: attachment sizes differ", gpu.ErrIncompleteFramebuffer))
		}
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, t.id, 0)
		fb.width, fb.height = int32(t.desc.Width), int32(t.desc.Height)
	}

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		return fail(fmt.Errorf("%w: status 0x%x", gpu.ErrIncompleteFramebuffer, status))
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	h := d.handle()
	d.framebuffers[h] = fb
	return h, nil
}

// CreateMesh uploads interleaved vertices and indices into a VAO.
func (d *Device) CreateMesh(g *geometry.Geometry) (gpu.Handle, error) {
	if g == nil || len(g.Vertices) == 0 || len(g.Indices) == 0 {
		return 0, fmt.Errorf("empty geometry")
	}

	m := &mesh{count: int32(len(g.Indices))}
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(g.Vertices)*geometry.VertexStride, unsafe.Pointer(&g.Vertices[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(g.Indices)*4, gl.Ptr(g.Indices), gl.STATIC_DRAW)

	stride := int32(geometry.VertexStride)

	// Position (location = 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)

	// Normal (location = 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)

	// TexCoord (location = 2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 6*4)
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)

	h := d.handle()
	d.meshes[h] = m
	return h, nil
}

// Upload replaces an 8-bit texture's contents.
func (d *Device) Upload(h gpu.Handle, data []byte) error {
	t, ok := d.textures[h]
	if !ok {
		return fmt.Errorf("%w: texture %d", gpu.ErrUnknownHandle, h)
	}
	info, _ := t.desc.Format.Info()
	if info.Depth || info.BytesPerTexel != info.Channels {
		return fmt.Errorf("%w: cannot upload bytes to %s", gpu.ErrInvalidFormat, t.desc.Format)
	}
	if want := t.desc.Width * t.desc.Height * info.Channels; len(data) != want {
		return fmt.Errorf("upload size %d, want %d", len(data), want)
	}
	f := glFormats[t.desc.Format]

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(t.desc.Width), int32(t.desc.Height), f.format, gl.UNSIGNED_BYTE, gl.Ptr(data))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return nil
}

// BindAsRenderTarget binds a framebuffer, or the display for gpu.Display,
// and sets the viewport to its size.
func (d *Device) BindAsRenderTarget(h gpu.Handle) error {
	if h == gpu.Display {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.Viewport(0, 0, d.displayWidth, d.displayHeight)
		return nil
	}
	fb, ok := d.framebuffers[h]
	if !ok {
		return fmt.Errorf("%w: framebuffer %d", gpu.ErrUnknownHandle, h)
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)
	gl.Viewport(0, 0, fb.width, fb.height)
	return nil
}

// BindAsSampler binds a texture to a texture unit.
func (d *Device) BindAsSampler(h gpu.Handle, unit int) error {
	t, ok := d.textures[h]
	if !ok {
		return fmt.Errorf("%w: texture %d", gpu.ErrUnknownHandle, h)
	}
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	return nil
}

// Clear clears the selected attachments of the bound target.
func (d *Device) Clear(opts gpu.ClearOptions) error {
	var mask uint32
	if opts.Color {
		c := opts.ColorValue
		gl.ClearColor(c[0], c[1], c[2], c[3])
		mask |= gl.COLOR_BUFFER_BIT
	}
	if opts.Depth {
		gl.DepthMask(true)
		gl.ClearDepth(float64(opts.DepthValue))
		mask |= gl.DEPTH_BUFFER_BIT
	}
	if mask != 0 {
		gl.Clear(mask)
	}
	return nil
}

// SetBlend applies a blend mode from the shared table.
func (d *Device) SetBlend(mode gpu.BlendMode) error {
	s, err := mode.State()
	if err != nil {
		return err
	}
	if !s.Enabled {
		gl.Disable(gl.BLEND)
		return nil
	}
	gl.Enable(gl.BLEND)
	gl.BlendEquation(gl.FUNC_ADD)
	gl.BlendFuncSeparate(glFactors[s.SrcColor], glFactors[s.DstColor], glFactors[s.SrcAlpha], glFactors[s.DstAlpha])
	return nil
}

// ReadPixels reads a texture back as floats, bottom row first.
func (d *Device) ReadPixels(h gpu.Handle) ([]float32, error) {
	t, ok := d.textures[h]
	if !ok {
		return nil, fmt.Errorf("%w: texture %d", gpu.ErrUnknownHandle, h)
	}
	info, _ := t.desc.Format.Info()
	f := glFormats[t.desc.Format]

	pixels := make([]float32, t.desc.Width*t.desc.Height*info.Channels)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.GetTexImage(gl.TEXTURE_2D, 0, f.format, gl.FLOAT, gl.Ptr(pixels))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return pixels, nil
}

// Release deletes whatever GL object h names. Unknown handles are ignored.
func (d *Device) Release(h gpu.Handle) {
	if t, ok := d.textures[h]; ok {
		gl.DeleteTextures(1, &t.id)
		delete(d.textures, h)
		return
	}
	if fb, ok := d.framebuffers[h]; ok {
		gl.DeleteFramebuffers(1, &fb.fbo)
		delete(d.framebuffers, h)
		return
	}
	if m, ok := d.meshes[h]; ok {
		gl.DeleteVertexArrays(1, &m.vao)
		gl.DeleteBuffers(1, &m.vbo)
		gl.DeleteBuffers(1, &m.ebo)
		delete(d.meshes, h)
	}
}

// Draw issues one indexed draw of mesh with the program's pass state.
func (d *Device) Draw(prog gpu.Program, h gpu.Handle, u *gpu.Uniforms) error {
	m, ok := d.meshes[h]
	if !ok {
		return fmt.Errorf("%w: mesh %d", gpu.ErrUnknownHandle, h)
	}

	if prog.Pass.State().DepthTest {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(gl.LESS)
		gl.DepthMask(true)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	gl.Disable(gl.CULL_FACE)

	program := uint32(prog.Handle)
	gl.UseProgram(program)
	d.setUniforms(prog.Handle, u)

	gl.BindVertexArray(m.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, m.count, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
	return nil
}

func (d *Device) location(program gpu.Handle, name string) int32 {
	locs, ok := d.locations[program]
	if !ok {
		locs = make(map[string]int32)
		d.locations[program] = locs
	}
	loc, ok := locs[name]
	if !ok {
		loc = gl.GetUniformLocation(uint32(program), gl.Str(name+"\x00"))
		locs[name] = loc
	}
	return loc
}

func (d *Device) setUniforms(program gpu.Handle, u *gpu.Uniforms) {
	for _, name := range u.Names() {
		loc := d.location(program, name)
		if loc < 0 {
			continue // inactive in this program
		}
		v, _ := u.Get(name)
		switch v.Kind {
		case gpu.KindFloat:
			gl.Uniform1f(loc, v.Float)
		case gpu.KindInt:
			gl.Uniform1i(loc, v.Int)
		case gpu.KindVec3:
			gl.Uniform3f(loc, v.Vec3.X, v.Vec3.Y, v.Vec3.Z)
		case gpu.KindVec4:
			gl.Uniform4f(loc, v.Vec4[0], v.Vec4[1], v.Vec4[2], v.Vec4[3])
		case gpu.KindMat4:
			gl.UniformMatrix4fv(loc, 1, false, v.Mat4.Ptr())
		}
	}
}

// ReadDisplay reads the default framebuffer back as RGBA floats, bottom
// row first.
func (d *Device) ReadDisplay() (pixels []float32, width, height int) {
	width, height = int(d.displayWidth), int(d.displayHeight)
	pixels = make([]float32, width*height*4)

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, d.displayWidth, d.displayHeight, gl.RGBA, gl.FLOAT, gl.Ptr(pixels))
	return pixels, width, height
}
