package pivot

import (
	"fmt"
)

// RecordingBackend keeps uploaded meshes, textures and every submitted
// frame in memory. It backs headless runs and tests.
type RecordingBackend struct {
	Meshes   map[AssetId]Mesh
	Textures map[AssetId]TextureAsset
	Uploads  []AssetId
	Frames   []Frame
	Released bool

	// KeepFrames bounds Frames to the most recent n when positive.
	KeepFrames int
}

func NewRecordingBackend() *RecordingBackend {
	return &RecordingBackend{
		Meshes:   make(map[AssetId]Mesh),
		Textures: make(map[AssetId]TextureAsset),
	}
}

func (b *RecordingBackend) UploadMesh(mesh Mesh) (AssetId, error) {
	if b.Released {
		return "", fmt.Errorf("upload %q: backend released", mesh.Name)
	}
	for _, idx := range mesh.Indices {
		if int(idx) >= len(mesh.Positions) {
			return "", fmt.Errorf("upload %q: index %d out of range", mesh.Name, idx)
		}
	}
	id := makeAssetId()
	b.Meshes[id] = mesh
	b.Uploads = append(b.Uploads, id)
	return id, nil
}

func (b *RecordingBackend) UploadTexture(tex TextureAsset) (AssetId, error) {
	if b.Released {
		return "", fmt.Errorf("upload texture %q: backend released", tex.Path)
	}
	if err := validateTexture(tex); err != nil {
		return "", err
	}
	id := makeAssetId()
	b.Textures[id] = tex
	return id, nil
}

func (b *RecordingBackend) DrawFrame(frame Frame) error {
	if b.Released {
		return fmt.Errorf("draw frame %d: backend released", frame.Index)
	}
	for _, item := range frame.Items {
		if _, ok := b.Meshes[item.Mesh]; !ok {
			return fmt.Errorf("draw frame %d: unknown mesh %s for %q", frame.Index, item.Mesh, item.Object)
		}
		if _, ok := b.Textures[item.Texture]; item.Texture != "" && !ok {
			return fmt.Errorf("draw frame %d: unknown texture %s for %q", frame.Index, item.Texture, item.Object)
		}
	}
	b.Frames = append(b.Frames, frame)
	if b.KeepFrames > 0 && len(b.Frames) > b.KeepFrames {
		b.Frames = b.Frames[len(b.Frames)-b.KeepFrames:]
	}
	return nil
}

// LastFrame returns the most recent frame, if any.
func (b *RecordingBackend) LastFrame() (Frame, bool) {
	if len(b.Frames) == 0 {
		return Frame{}, false
	}
	return b.Frames[len(b.Frames)-1], true
}

func (b *RecordingBackend) Release() {
	b.Released = true
}
