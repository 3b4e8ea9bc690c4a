// Command molsurf-view is an OpenGL/GLFW viewer for a computed molecular
// surface mesh: one concrete external renderer the engine itself stays
// agnostic to. Window/context setup follows cmd/triangle's init sequence;
// shading, camera and HUD come from internal/glview.
package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/molsurf/molsurf/internal/glview"
	"github.com/molsurf/molsurf/pkg/atomio"
	"github.com/molsurf/molsurf/pkg/molsurf"
)

func init() { runtime.LockOSThread() }

const (
	windowWidth  = 1280
	windowHeight = 800
)

var meshVertexShader = `#version 410 core
layout (location = 0) in vec3 position;
layout (location = 1) in vec3 normal;
out vec3 fragNormal;
out vec3 fragPos;
uniform mat4 model;
uniform mat4 view;
uniform mat4 projection;
void main() {
	fragPos = vec3(model * vec4(position, 1.0));
	fragNormal = mat3(transpose(inverse(model))) * normal;
	gl_Position = projection * view * vec4(fragPos, 1.0);
}` + "\x00"

var meshFragmentShader = `#version 410 core
in vec3 fragNormal;
in vec3 fragPos;
out vec4 fragColor;
uniform vec3 lightDir;
uniform vec3 viewPos;
uniform vec3 baseColor;
void main() {
	vec3 n = normalize(fragNormal);
	float diff = max(dot(n, -normalize(lightDir)), 0.0);
	vec3 viewDir = normalize(viewPos - fragPos);
	vec3 halfway = normalize(-normalize(lightDir) + viewDir);
	float spec = pow(max(dot(n, halfway), 0.0), 32.0);
	vec3 color = baseColor * (0.2 + 0.7*diff) + vec3(1.0) * 0.3 * spec;
	fragColor = vec4(color, 1.0);
}` + "\x00"

func main() {
	atomsPath := flag.String("atoms", "", "path to an atom list (.json or whitespace/CSV text)")
	kind := flag.String("kind", "ses", "surface kind: vdw|sas|ses|ms")
	probe := flag.Float64("probe", molsurf.ProbeDefault, "probe radius (world units)")
	voxel := flag.Float64("voxel", 0, "voxel edge length (world units); 0 derives from extent")
	fontPath := flag.String("font", "", "optional TrueType font for the HUD readout")
	flag.Parse()

	if *atomsPath == "" {
		log.Fatal("molsurf-view: -atoms is required")
	}
	atoms, err := atomio.Load(*atomsPath)
	if err != nil {
		log.Fatalf("molsurf-view: %v", err)
	}

	mesh, err := computeMesh(atoms, *kind, *probe, *voxel)
	if err != nil {
		log.Fatalf("molsurf-view: %v", err)
	}
	log.Printf("molsurf-view: %s surface: %d vertices, %d triangles, %d components",
		*kind, len(mesh.Positions)/3, len(mesh.Indices)/3, len(mesh.Components))

	if err := run(mesh, *kind, *fontPath); err != nil {
		log.Fatalf("molsurf-view: %v", err)
	}
}

func computeMesh(atoms []molsurf.Atom, kind string, probe, voxel float64) (*molsurf.Mesh, error) {
	opts := molsurf.Options{ProbeRadius: probe, VoxelSize: voxel}
	switch kind {
	case "vdw":
		return molsurf.VDW(atoms, opts)
	case "sas":
		return molsurf.SAS(atoms, opts)
	case "ses":
		return molsurf.SES(atoms, opts)
	case "ms":
		return molsurf.MS(atoms, opts)
	default:
		return nil, fmt.Errorf("unknown surface kind %q", kind)
	}
}

func run(mesh *molsurf.Mesh, kind, fontPath string) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(windowWidth, windowHeight, "molsurf-view", nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.ClearColor(0.08, 0.09, 0.11, 1.0)

	shader, err := glview.NewShaderFromSource(meshVertexShader, meshFragmentShader)
	if err != nil {
		return fmt.Errorf("mesh shader: %w", err)
	}

	vao, vbo, nbo, ebo := uploadMesh(mesh)
	defer func() {
		gl.DeleteBuffers(1, &vbo)
		gl.DeleteBuffers(1, &nbo)
		gl.DeleteBuffers(1, &ebo)
		gl.DeleteVertexArrays(1, &vao)
	}()

	center, radius := boundingSphere(mesh.Positions)
	cam := glview.NewOrbitCamera(center, radius*2.5, windowWidth, windowHeight)

	var hud *glview.HUD
	if fontPath != "" {
		atlas, err := glview.BuildFontAtlas(fontPath, 18)
		if err != nil {
			log.Printf("molsurf-view: HUD disabled: %v", err)
		} else if h, err := glview.NewHUD(atlas, windowWidth, windowHeight); err == nil {
			hud = h
		}
	}

	lastX, lastY := 0.0, 0.0
	dragging := false
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if button == glfw.MouseButtonLeft {
			dragging = action == glfw.Press
			lastX, lastY = w.GetCursorPos()
		}
	})
	window.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		if dragging {
			cam.Orbit(float32(x-lastX)*0.01, float32(y-lastY)*-0.01)
			lastX, lastY = x, y
		}
	})
	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		cam.Zoom(float32(1.0 - yoff*0.1))
	})

	model := mgl32.Ident4()
	statusText := fmt.Sprintf("%s  verts=%d  tris=%d", kind, len(mesh.Positions)/3, len(mesh.Indices)/3)

	for !window.ShouldClose() {
		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
		}

		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

		shader.Use()
		view := cam.ViewMatrix()
		proj := cam.ProjectionMatrix()
		shader.SetMat4("model", &model[0])
		shader.SetMat4("view", &view[0])
		shader.SetMat4("projection", &proj[0])
		shader.SetVec3("lightDir", -0.4, -1.0, -0.3)
		eye := cam.Eye()
		shader.SetVec3("viewPos", eye.X(), eye.Y(), eye.Z())
		shader.SetVec3("baseColor", 0.55, 0.65, 0.85)

		gl.BindVertexArray(vao)
		gl.DrawElements(gl.TRIANGLES, int32(len(mesh.Indices)), gl.UNSIGNED_INT, gl.PtrOffset(0))

		if hud != nil {
			hud.Draw(statusText, 12, 24, 1.0, mgl32.Vec3{0.9, 0.95, 1.0})
		}

		window.SwapBuffers()
		glfw.PollEvents()
	}
	return nil
}

func uploadMesh(mesh *molsurf.Mesh) (vao, vbo, nbo, ebo uint32) {
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Positions)*4, gl.Ptr(mesh.Positions), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 0, gl.PtrOffset(0))

	gl.GenBuffers(1, &nbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, nbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Normals)*4, gl.Ptr(mesh.Normals), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, 0, gl.PtrOffset(0))

	gl.GenBuffers(1, &ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, gl.Ptr(mesh.Indices), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	return
}

func boundingSphere(positions []float32) (mgl32.Vec3, float32) {
	if len(positions) == 0 {
		return mgl32.Vec3{}, 1
	}
	min := mgl32.Vec3{positions[0], positions[1], positions[2]}
	max := min
	for i := 0; i+3 <= len(positions); i += 3 {
		p := mgl32.Vec3{positions[i], positions[i+1], positions[i+2]}
		for a := 0; a < 3; a++ {
			if p[a] < min[a] {
				min[a] = p[a]
			}
			if p[a] > max[a] {
				max[a] = p[a]
			}
		}
	}
	center := min.Add(max).Mul(0.5)
	radius := max.Sub(center).Len()
	if radius == 0 {
		radius = 1
	}
	return center, radius
}
