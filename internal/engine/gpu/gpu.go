// Package gpu defines the resource and shader contracts the painting
// pipeline renders through. Implementations live in gldevice (OpenGL)
// and soft (CPU).
package gpu

import (
	"errors"
	"fmt"

	"github.com/Faultbox/airbrush/internal/engine/geometry"
	"github.com/Faultbox/airbrush/pkg/math"
)

var (
	// ErrInvalidFormat is returned for a texture format with no descriptor.
	ErrInvalidFormat = errors.New("invalid texture format")
	// ErrIncompleteFramebuffer is returned when attachments cannot form a
	// complete framebuffer.
	ErrIncompleteFramebuffer = errors.New("framebuffer incomplete")
	// ErrShaderCompile is returned when a program fails to compile or link.
	ErrShaderCompile = errors.New("shader compile failed")
	// ErrUnknownHandle is returned for handles the device never issued or
	// already released.
	ErrUnknownHandle = errors.New("unknown gpu handle")
)

// Handle identifies a device resource. Zero is never a valid resource; as
// a render target it selects the display.
type Handle uint32

// Display is the render target handle for the on-screen surface.
const Display Handle = 0

// Format is a texture storage format.
type Format int

const (
	FormatR8 Format = iota
	FormatRGBA8
	FormatRGBA16F
	FormatDepth16
)

// FormatInfo describes how a format is stored.
type FormatInfo struct {
	Name          string
	Channels      int
	BytesPerTexel int
	Depth         bool
}

var formats = map[Format]FormatInfo{
	FormatR8:      {Name: "R8", Channels: 1, BytesPerTexel: 1},
	FormatRGBA8:   {Name: "RGBA8", Channels: 4, BytesPerTexel: 4},
	FormatRGBA16F: {Name: "RGBA16F", Channels: 4, BytesPerTexel: 8},
	FormatDepth16: {Name: "DEPTH16", Channels: 1, BytesPerTexel: 2, Depth: true},
}

// Info returns the descriptor for f.
func (f Format) Info() (FormatInfo, error) {
	info, ok := formats[f]
	if !ok {
		return FormatInfo{}, fmt.Errorf("%w: %d", ErrInvalidFormat, f)
	}
	return info, nil
}

func (f Format) String() string {
	if info, ok := formats[f]; ok {
		return info.Name
	}
	return fmt.Sprintf("Format(%d)", f)
}

// TextureDesc describes a 2D texture.
type TextureDesc struct {
	Width  int
	Height int
	Format Format
}

// Validate checks the size and format.
func (d TextureDesc) Validate() error {
	if _, err := d.Format.Info(); err != nil {
		return err
	}
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("invalid texture size %dx%d", d.Width, d.Height)
	}
	return nil
}

// ClearOptions selects which attachments of the bound target to clear.
type ClearOptions struct {
	Color      bool
	ColorValue math.Vec4
	Depth      bool
	DepthValue float32
}

// ClearColor clears only the color attachment to v.
func ClearColor(v math.Vec4) ClearOptions {
	return ClearOptions{Color: true, ColorValue: v}
}

// ClearDepth clears only the depth attachment to the far plane.
func ClearDepth() ClearOptions {
	return ClearOptions{Depth: true, DepthValue: 1}
}

// Device creates, binds and draws GPU resources. Calls are made from a
// single goroutine.
type Device interface {
	CreateTexture(desc TextureDesc) (Handle, error)
	// CreateFramebuffer attaches color and/or depth textures. Pass 0 to
	// leave an attachment empty.
	CreateFramebuffer(color, depth Handle) (Handle, error)
	CreateMesh(g *geometry.Geometry) (Handle, error)

	// Upload replaces the whole texture with data laid out bottom row first.
	Upload(texture Handle, data []byte) error
	BindAsRenderTarget(framebuffer Handle) error
	BindAsSampler(texture Handle, unit int) error
	Clear(opts ClearOptions) error
	SetBlend(mode BlendMode) error
	Draw(program Program, mesh Handle, uniforms *Uniforms) error

	// ReadPixels returns every channel of every texel as floats in [0,1],
	// bottom row first.
	ReadPixels(texture Handle) ([]float32, error)
	Release(h Handle)
}

// ShaderProvider hands out the compiled program for each pass.
type ShaderProvider interface {
	Program(pass Pass) (Program, error)
}
