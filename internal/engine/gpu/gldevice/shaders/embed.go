// Package shaders provides embedded GLSL shader sources for the painting
// passes.
package shaders

import _ "embed"

// DepthVertexShader transforms model positions into nozzle clip space.
//
//go:embed depth.vert
var DepthVertexShader string

// DepthFragmentShader writes depth only.
//
//go:embed depth.frag
var DepthFragmentShader string

// DecalVertexShader rasterizes a part in its own texture space.
//
//go:embed decal.vert
var DecalVertexShader string

// DecalFragmentShader deposits paint where the nozzle sees the surface.
//
//go:embed decal.frag
var DecalFragmentShader string

// BlendVertexShader draws the full-screen quad.
//
//go:embed blend.vert
var BlendVertexShader string

// BlendFragmentShader composites a stroke over the previous paint map.
//
//go:embed blend.frag
var BlendFragmentShader string

// DisplayVertexShader is the lit model vertex shader.
//
//go:embed display.vert
var DisplayVertexShader string

// DisplayFragmentShader shades dirt and paint under one ceiling light.
//
//go:embed display.frag
var DisplayFragmentShader string
