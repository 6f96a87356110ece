// Package glhost is a reference bridge.Host backed by OpenGL + GLFW. It
// exists so the demo can run standalone; a real embedding would implement
// bridge.Host against the host engine's own upload and draw paths.
package glhost

import (
	"fmt"
	"log/slog"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/hollyoak/guibridge/gui"
)

// Renderer implements bridge.Host with one GL texture per bridge texture
// id and a streaming vertex/index buffer pair for mesh paints.
type Renderer struct {
	win      *Window
	program  uint32
	vao      uint32
	vbo      uint32
	ebo      uint32
	uScreen  int32
	textures map[uint64]uint32
	painted  bool
}

// TookPaint reports whether a paint bracket ran since the last call, so the
// render loop only swaps buffers on frames that actually drew.
func (r *Renderer) TookPaint() bool {
	p := r.painted
	r.painted = false
	return p
}

func NewRenderer(win *Window) (*Renderer, error) {
	r := &Renderer{win: win, textures: make(map[uint64]uint32)}

	var err error
	r.program, err = makeProgram(vertexSource, fragmentSource)
	if err != nil {
		return nil, err
	}
	r.uScreen = gl.GetUniformLocation(r.program, gl.Str("uScreen\x00"))

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.GenBuffers(1, &r.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)

	// Vertex layout mirrors the wire contract: pos2 + uv2 + color4.
	const stride = int32(gui.VertexStride)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(0)))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(2*4)))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 4, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(4*4)))

	gl.BindVertexArray(0)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA) // premultiplied alpha
	gl.Disable(gl.DEPTH_TEST)
	return r, nil
}

func (r *Renderer) Shutdown() {
	for _, tex := range r.textures {
		gl.DeleteTextures(1, &tex)
	}
	if r.ebo != 0 {
		gl.DeleteBuffers(1, &r.ebo)
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
}

// ===== bridge.Host =====

func (r *Renderer) SetTexture(id uint64, offsetX, offsetY, width, height uint32, filter uint32, pixels []byte) {
	tex, ok := r.textures[id]
	if !ok {
		gl.GenTextures(1, &tex)
		r.textures[id] = tex
	}
	gl.BindTexture(gl.TEXTURE_2D, tex)

	mode := int32(gl.LINEAR)
	if filter == 1 {
		mode = gl.NEAREST
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, mode)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, mode)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	// A zero offset always means a full (re)upload; the protocol cannot
	// express a sub-region patch at the origin.
	if ok && (offsetX != 0 || offsetY != 0) {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0,
			int32(offsetX), int32(offsetY), int32(width), int32(height),
			gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	} else {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
			int32(width), int32(height), 0,
			gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (r *Renderer) RemTexture(id uint64) {
	if tex, ok := r.textures[id]; ok {
		gl.DeleteTextures(1, &tex)
		delete(r.textures, id)
	}
}

func (r *Renderer) BeginPaint() {
	r.painted = true
	fbW, fbH := r.win.FramebufferSize()
	gl.Viewport(0, 0, int32(fbW), int32(fbH))
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.UseProgram(r.program)
	w, h := r.win.SizePoints()
	gl.Uniform2f(r.uScreen, w, h)
	gl.BindVertexArray(r.vao)
	gl.Enable(gl.SCISSOR_TEST)
}

func (r *Renderer) PaintMesh(textureID uint64, vertexCount uint32, vertices []byte, indexCount uint32, indices []byte, clipMinX, clipMinY, clipMaxX, clipMaxY float32) {
	if vertexCount == 0 || indexCount == 0 {
		return
	}
	tex, ok := r.textures[textureID]
	if !ok {
		slog.Warn("paint references unknown texture", "id", textureID)
		return
	}

	// Clip rect arrives in points with a top-left origin; GL scissors in
	// pixels from the bottom-left.
	ppp := r.win.PixelsPerPoint()
	_, fbH := r.win.FramebufferSize()
	x := int32(clipMinX * ppp)
	y := int32(float32(fbH) - clipMaxY*ppp)
	w := int32((clipMaxX - clipMinX) * ppp)
	h := int32((clipMaxY - clipMinY) * ppp)
	if w <= 0 || h <= 0 {
		return
	}
	gl.Scissor(x, y, w, h)

	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices), gl.Ptr(vertices), gl.STREAM_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices), gl.Ptr(indices), gl.STREAM_DRAW)

	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.DrawElements(gl.TRIANGLES, int32(indexCount), gl.UNSIGNED_INT, nil)
}

func (r *Renderer) EndPaint() {
	gl.Disable(gl.SCISSOR_TEST)
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)
}

// ShowKeyboard satisfies bridge.KeyboardHost; desktops have real keyboards
// so this only logs transitions.
func (r *Renderer) ShowKeyboard(show bool, currentText string) {
	slog.Debug("keyboard visibility", "show", show, "text", currentText)
}

// --- Shader utilities ---

const vertexSource = `
#version 330 core
layout(location=0) in vec2 aPos;
layout(location=1) in vec2 aUV;
layout(location=2) in vec4 aColor;
uniform vec2 uScreen;
out vec2 vUV;
out vec4 vColor;
void main() {
    vUV = aUV;
    vColor = aColor;
    vec2 ndc = aPos / uScreen * 2.0 - 1.0;
    gl_Position = vec4(ndc.x, -ndc.y, 0.0, 1.0);
}
` + "\x00"

const fragmentSource = `
#version 330 core
in vec2 vUV;
in vec4 vColor;
uniform sampler2D uTex;
out vec4 FragColor;
void main() {
    FragColor = vColor * texture(uTex, vUV);
}
` + "\x00"

func makeShader(src string, shaderType uint32) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	defer free()
	gl.ShaderSource(sh, 1, csrc, nil)
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
		infoLog := strings.Repeat("\x00", int(logLen))
		gl.GetShaderInfoLog(sh, logLen, nil, gl.Str(infoLog))
		return 0, fmt.Errorf("shader compile error: %s", infoLog)
	}
	return sh, nil
}

func makeProgram(vsSrc, fsSrc string) (uint32, error) {
	vs, err := makeShader(vsSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := makeShader(fsSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}
	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		infoLog := strings.Repeat("\x00", int(logLen))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(infoLog))
		return 0, fmt.Errorf("program link error: %s", infoLog)
	}
	return prog, nil
}
