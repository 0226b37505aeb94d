package pivot

import (
	"fmt"

	"github.com/gekko3d/pivot/core"
	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is the CPU-side geometry handed to a backend once per object.
type Mesh struct {
	Name      string
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Indices   []uint32
}

func MeshFromObject(obj *core.SceneObject) Mesh {
	indices := make([]uint32, 0, len(obj.Triangles)*3)
	for _, tri := range obj.Triangles {
		indices = append(indices, tri[0], tri[1], tri[2])
	}
	return Mesh{
		Name:      obj.Name,
		Positions: obj.Vertices,
		Normals:   obj.Normals,
		UVs:       obj.UVs,
		Indices:   indices,
	}
}

// DrawItem is one object of a frame. World is column-major, the layout
// mgl32.Mat4 already has. Texture is the backend id of the uploaded
// texture, empty when the object is drawn with its colour only.
type DrawItem struct {
	Object      string
	Mesh        AssetId
	World       mgl32.Mat4
	Material    core.Material
	Texture     AssetId
	Highlighted bool
}

type Frame struct {
	Index      uint64
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Eye        mgl32.Vec3
	Items      []DrawItem
}

type Backend interface {
	UploadMesh(mesh Mesh) (AssetId, error)
	UploadTexture(tex TextureAsset) (AssetId, error)
	DrawFrame(frame Frame) error
	Release()
}

func validateTexture(tex TextureAsset) error {
	if tex.Format != TextureFormatRGBA8Unorm {
		return fmt.Errorf("upload texture %q: unsupported format %#x", tex.Path, uint32(tex.Format))
	}
	if tex.Width == 0 || tex.Height == 0 {
		return fmt.Errorf("upload texture %q: empty image", tex.Path)
	}
	if len(tex.Texels) != int(tex.Width*tex.Height*4) {
		return fmt.Errorf("upload texture %q: %d bytes for %dx%d", tex.Path, len(tex.Texels), tex.Width, tex.Height)
	}
	return nil
}

// RenderState tracks which objects have a mesh on the backend and which
// decoded textures have been uploaded.
type RenderState struct {
	backend Backend
	assets  *AssetServer
	meshes  map[string]AssetId
	failed  map[string]bool

	textures       map[AssetId]AssetId // asset server id -> backend id
	failedTextures map[AssetId]bool

	Submitted uint64
}

func (rs *RenderState) MeshOf(object string) (AssetId, bool) {
	id, ok := rs.meshes[object]
	return id, ok
}

// RendererModule draws the scene through Backend. Install it after the
// scene and asset modules.
type RendererModule struct {
	Name    BackendName
	Backend Backend
}

func (m RendererModule) Install(app *App, cmd *Commands) {
	if m.Backend == nil {
		panic("RendererModule: nil backend")
	}
	ensureSingleRenderer(app, string(m.Name))

	rs := &RenderState{
		backend: m.Backend,
		meshes:  make(map[string]AssetId),
		failed:  make(map[string]bool),

		textures:       make(map[AssetId]AssetId),
		failedTextures: make(map[AssetId]bool),
	}
	rs.assets, _ = Resource[AssetServer](app)
	cmd.AddResources(rs)

	app.UseSystem(
		System(meshUploadSystem).
			InStage(PreRender),
	)
	app.UseSystem(
		System(textureUploadSystem).
			InStage(PreRender),
	)
	app.UseSystem(
		System(renderSystem).
			InStage(Render),
	)
}

func meshUploadSystem(state *SceneState, rs *RenderState, log Logger) {
	for _, obj := range state.Scene.Objects() {
		if _, ok := rs.meshes[obj.Name]; ok || rs.failed[obj.Name] {
			continue
		}
		id, err := rs.backend.UploadMesh(MeshFromObject(obj))
		if err != nil {
			rs.failed[obj.Name] = true
			log.Errorf("upload mesh %q: %v", obj.Name, err)
			continue
		}
		rs.meshes[obj.Name] = id
		log.Debugf("Uploaded mesh %q as %s", obj.Name, id)
	}
}

// textureUploadSystem hands each decoded texture a material references to
// the backend once. Failures are logged and not retried.
func textureUploadSystem(state *SceneState, rs *RenderState, log Logger) {
	if rs.assets == nil {
		return
	}
	for _, obj := range state.Scene.Objects() {
		if !obj.Material.HasTexture() {
			continue
		}
		assetID := rs.assets.TextureFor(obj.Material.Texture)
		if assetID == "" {
			continue
		}
		if _, ok := rs.textures[assetID]; ok || rs.failedTextures[assetID] {
			continue
		}
		tex, ok := rs.assets.Texture(assetID)
		if !ok {
			continue
		}
		id, err := rs.backend.UploadTexture(tex)
		if err != nil {
			rs.failedTextures[assetID] = true
			log.Errorf("object %q: %v", obj.Name, err)
			continue
		}
		rs.textures[assetID] = id
		log.Debugf("Uploaded texture %q as %s", obj.Material.Texture, id)
	}
}

// TextureOf returns the backend id of a material texture reference.
func (rs *RenderState) TextureOf(ref string) (AssetId, bool) {
	if rs.assets == nil {
		return "", false
	}
	id, ok := rs.textures[rs.assets.TextureFor(ref)]
	return id, ok
}

func renderSystem(state *SceneState, rs *RenderState, cfg *Config, input *Input, cmd *Commands, log Logger) {
	aspect := float32(cfg.Window.Width) / float32(cfg.Window.Height)
	if input.WindowWidth > 0 && input.WindowHeight > 0 {
		aspect = float32(input.WindowWidth) / float32(input.WindowHeight)
	}

	frame := BuildFrame(state, rs, cfg.HighlightScale, aspect)
	frame.Index = cmd.Frame()
	if err := rs.backend.DrawFrame(frame); err != nil {
		log.Errorf("draw frame %d: %v", frame.Index, err)
		return
	}
	rs.Submitted++
}

// BuildFrame collects the draw list in input order. Objects whose mesh is
// not on the backend are skipped. The selected object is scaled about its
// centroid by highlight; its stored transform is left alone.
func BuildFrame(state *SceneState, rs *RenderState, highlight float32, aspect float32) Frame {
	cam := state.Camera
	frame := Frame{
		View:       cam.ViewMatrix(),
		Projection: cam.ProjectionMatrix(aspect),
		Eye:        cam.Position,
		Items:      make([]DrawItem, 0, state.Scene.Len()),
	}

	selected := state.SelectedObject()
	for _, obj := range state.Scene.Objects() {
		id, ok := rs.MeshOf(obj.Name)
		if !ok {
			continue
		}
		item := DrawItem{
			Object:   obj.Name,
			Mesh:     id,
			World:    obj.World,
			Material: obj.Material,
		}
		if obj == selected {
			item.World = obj.World.Mul4(highlightMatrix(obj.Pivot(), highlight))
			item.Highlighted = true
		}
		if obj.Material.HasTexture() {
			item.Texture, _ = rs.TextureOf(obj.Material.Texture)
		}
		frame.Items = append(frame.Items, item)
	}
	return frame
}

func highlightMatrix(pivot mgl32.Vec3, s float32) mgl32.Mat4 {
	return mgl32.Translate3D(pivot.X(), pivot.Y(), pivot.Z()).
		Mul4(mgl32.Scale3D(s, s, s)).
		Mul4(mgl32.Translate3D(-pivot.X(), -pivot.Y(), -pivot.Z()))
}
