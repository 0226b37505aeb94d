package pivot

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/gekko3d/pivot/core"
	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type AssetId string

type TextureFormat uint32

const (
	TextureFormatRGBA8Unorm TextureFormat = 0x00000012
)

type TextureAsset struct {
	Path   string
	Texels []uint8
	Width  uint32
	Height uint32
	Format TextureFormat
}

// AssetServer keeps decoded textures. A file is decoded once; later loads
// of the same path return the first id.
type AssetServer struct {
	textures map[AssetId]TextureAsset
	byPath   map[string]AssetId
	byRef    map[string]AssetId // material texture reference -> id
}

func NewAssetServer() *AssetServer {
	return &AssetServer{
		textures: make(map[AssetId]TextureAsset),
		byPath:   make(map[string]AssetId),
		byRef:    make(map[string]AssetId),
	}
}

func (server *AssetServer) CreateTexture(texels []uint8, texWidth uint32, texHeight uint32, format TextureFormat) AssetId {
	id := makeAssetId()

	server.textures[id] = TextureAsset{
		Texels: texels,
		Width:  texWidth,
		Height: texHeight,
		Format: format,
	}

	return id
}

// LoadTexture decodes png, jpeg, bmp, tiff or webp into RGBA8 texels.
func (server *AssetServer) LoadTexture(filename string) (AssetId, error) {
	if id, ok := server.byPath[filename]; ok {
		return id, nil
	}

	file, err := os.Open(filename)
	if err != nil {
		return "", fmt.Errorf("texture: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return "", fmt.Errorf("texture: decode %s: %w", filename, err)
	}

	bounds := img.Bounds()
	rgbaImg, ok := img.(*image.RGBA)
	if !ok || rgbaImg.Stride != 4*bounds.Dx() {
		rgbaImg = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgbaImg, rgbaImg.Bounds(), img, bounds.Min, draw.Src)
	}

	id := server.CreateTexture(rgbaImg.Pix, uint32(bounds.Dx()), uint32(bounds.Dy()), TextureFormatRGBA8Unorm)
	tex := server.textures[id]
	tex.Path = filename
	server.textures[id] = tex
	server.byPath[filename] = id
	return id, nil
}

func (server *AssetServer) Texture(id AssetId) (TextureAsset, bool) {
	tex, ok := server.textures[id]
	return tex, ok
}

// TextureFor returns the id loaded for a material's texture reference, or "".
func (server *AssetServer) TextureFor(ref string) AssetId {
	return server.byRef[ref]
}

func (server *AssetServer) Len() int {
	return len(server.textures)
}

// LoadSceneTextures decodes every texture the scene's materials name,
// resolving relative names against dir. With strict set the first failure
// is returned; otherwise failures are logged and skipped.
func (server *AssetServer) LoadSceneTextures(scene *core.Scene, dir string, strict bool, log Logger) error {
	for _, obj := range scene.Objects() {
		if !obj.Material.HasTexture() {
			continue
		}
		path := TexturePath(dir, obj.Material.Texture)
		id, err := server.LoadTexture(path)
		if err != nil {
			if strict {
				return fmt.Errorf("object %q: %w", obj.Name, err)
			}
			log.Warnf("object %q: %v", obj.Name, err)
			continue
		}
		server.byRef[obj.Material.Texture] = id
	}
	return nil
}

// TexturePath resolves a material's texture reference against dir.
func TexturePath(dir, name string) string {
	if filepath.IsAbs(name) || dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}

// AssetServerModule installs an AssetServer. A preloaded Server is
// installed as is; otherwise a new one is created and, when a SceneState
// is already installed, the scene's textures are loaded into it.
type AssetServerModule struct {
	Server *AssetServer
	Dir    string
	Strict bool
}

func (m AssetServerModule) Install(app *App, cmd *Commands) {
	if m.Server != nil {
		cmd.AddResources(m.Server)
		return
	}
	server := NewAssetServer()
	cmd.AddResources(server)

	state, ok := Resource[SceneState](app)
	if !ok {
		return
	}
	if err := server.LoadSceneTextures(state.Scene, m.Dir, m.Strict, app.Logger()); err != nil {
		app.Logger().Errorf("load textures: %v", err)
		panic(err)
	}
	app.Logger().Debugf("Loaded %d textures", server.Len())
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}
