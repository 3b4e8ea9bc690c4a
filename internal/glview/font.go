package glview

import (
	"fmt"
	"image"
	"image/draw"
	"math"
	"os"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// glyph describes one character's placement and metrics within the atlas.
type glyph struct {
	atlasX, atlasY     float32
	width, height      float32
	bearingX, bearingY float32
	advance            int
}

// FontAtlas is a baked ASCII glyph set on a single-channel OpenGL texture.
type FontAtlas struct {
	textureID  uint32
	atlasW     int
	atlasH     int
	characters map[rune]glyph
}

// BuildFontAtlas loads a TrueType/OpenType font file and bakes the ASCII
// printable range into a texture atlas, measuring and packing each glyph
// row by row in a single pass.
func BuildFontAtlas(fontPath string, pixelSize int) (*FontAtlas, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("glview: read font: %w", err)
	}
	f, err := opentype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("glview: parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: float64(pixelSize), DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("glview: new face: %w", err)
	}
	defer face.Close()

	const atlasW, atlasH = 512, 512
	const padding = 1
	atlasImg := image.NewAlpha(image.Rect(0, 0, atlasW, atlasH))
	characters := make(map[rune]glyph)

	offsetX, offsetY, rowHeight := 0, 0, 0
	for r := rune(32); r <= rune(126); r++ {
		dr, mask, maskp, advance, ok := face.Glyph(fixed.P(0, 0), r)
		if !ok {
			continue
		}
		gw, gh := dr.Dx(), dr.Dy()
		if gw == 0 || gh == 0 {
			characters[r] = glyph{advance: int(math.Round(float64(advance) / 64.0))}
			continue
		}
		if offsetX+gw+padding > atlasW {
			offsetX = 0
			offsetY += rowHeight + padding
			rowHeight = 0
		}
		dst := image.Rect(offsetX, offsetY, offsetX+gw, offsetY+gh)
		draw.Draw(atlasImg, dst, mask, maskp, draw.Src)

		characters[r] = glyph{
			atlasX: float32(offsetX), atlasY: float32(offsetY),
			width: float32(gw), height: float32(gh),
			bearingX: float32(dr.Min.X), bearingY: float32(-dr.Min.Y),
			advance: int(math.Round(float64(advance) / 64.0)),
		}
		offsetX += gw + padding
		if gh > rowHeight {
			rowHeight = gh
		}
	}

	var texture uint32
	gl.GenTextures(1, &texture)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RED, atlasW, atlasH, 0, gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(atlasImg.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	return &FontAtlas{textureID: texture, atlasW: atlasW, atlasH: atlasH, characters: characters}, nil
}

const hudVertexShader = `#version 410 core
layout (location = 0) in vec4 vertex;
out vec2 texCoord;
uniform mat4 projection;
void main() {
	gl_Position = projection * vec4(vertex.xy, 0.0, 1.0);
	texCoord = vertex.zw;
}`

const hudFragmentShader = `#version 410 core
in vec2 texCoord;
out vec4 fragColor;
uniform sampler2D glyphAtlas;
uniform vec3 textColor;
void main() {
	float a = texture(glyphAtlas, texCoord).r;
	fragColor = vec4(textColor, a);
}`

// HUD renders short status strings (vertex/triangle/mode readout) over the
// 3D view using an orthographic-quad-per-glyph approach, with its shader
// embedded rather than loaded from an assets/ directory, so the viewer
// binary needs no external files besides the font itself.
type HUD struct {
	atlas      *FontAtlas
	shader     *Shader
	projection mgl32.Mat4
	vao, vbo   uint32
	capFloats  int
}

// NewHUD builds the HUD's shader and buffers for a window of the given
// pixel size.
func NewHUD(atlas *FontAtlas, winWidth, winHeight int) (*HUD, error) {
	shader, err := NewShaderFromSource(hudVertexShader, hudFragmentShader)
	if err != nil {
		return nil, err
	}
	h := &HUD{
		atlas:      atlas,
		shader:     shader,
		projection: mgl32.Ortho(0, float32(winWidth), float32(winHeight), 0, -1, 1),
		capFloats:  256 * 6 * 4,
	}
	gl.GenVertexArrays(1, &h.vao)
	gl.GenBuffers(1, &h.vbo)
	gl.BindVertexArray(h.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, h.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, h.capFloats*4, nil, gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 4, gl.FLOAT, false, 4*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return h, nil
}

// Draw renders text at pixel position (x, y) in the given color.
func (h *HUD) Draw(text string, x, y, scale float32, color mgl32.Vec3) {
	verts := h.buildVertices(text, x, y, scale)
	if len(verts) == 0 {
		return
	}

	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	h.shader.Use()
	h.shader.SetVec3("textColor", color.X(), color.Y(), color.Z())
	h.shader.SetMat4("projection", &h.projection[0])
	h.shader.SetInt("glyphAtlas", 0)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, h.atlas.textureID)
	gl.BindVertexArray(h.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, h.vbo)

	if len(verts) > h.capFloats {
		h.capFloats = len(verts) * 2
		gl.BufferData(gl.ARRAY_BUFFER, h.capFloats*4, nil, gl.DYNAMIC_DRAW)
	}
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(verts)*4, gl.Ptr(verts))
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(verts)/4))

	gl.Disable(gl.BLEND)
	gl.Enable(gl.DEPTH_TEST)
}

func (h *HUD) buildVertices(text string, x, y, scale float32) []float32 {
	out := make([]float32, 0, len(text)*6*4)
	for _, r := range text {
		g, ok := h.atlas.characters[r]
		if !ok {
			continue
		}
		if g.width > 0 && g.height > 0 {
			xPos := x + g.bearingX*scale
			yPos := y - g.bearingY*scale
			w, ht := g.width*scale, g.height*scale
			u0 := g.atlasX / float32(h.atlas.atlasW)
			v0 := g.atlasY / float32(h.atlas.atlasH)
			u1 := (g.atlasX + g.width) / float32(h.atlas.atlasW)
			v1 := (g.atlasY + g.height) / float32(h.atlas.atlasH)
			out = append(out,
				xPos, yPos+ht, u0, v1,
				xPos, yPos, u0, v0,
				xPos+w, yPos, u1, v0,
				xPos, yPos+ht, u0, v1,
				xPos+w, yPos, u1, v0,
				xPos+w, yPos+ht, u1, v1,
			)
		}
		x += float32(g.advance) * scale
	}
	return out
}
