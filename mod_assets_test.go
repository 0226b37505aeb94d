package pivot

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 100), G: uint8(y * 100), B: 7, A: 255})
		}
	}
	return img
}

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(w, h)))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestAssetServer_LoadPNG(t *testing.T) {
	path := writePNG(t, t.TempDir(), "a.png", 3, 2)
	server := NewAssetServer()

	id, err := server.LoadTexture(path)
	require.NoError(t, err)

	tex, ok := server.Texture(id)
	require.True(t, ok)
	assert.Equal(t, uint32(3), tex.Width)
	assert.Equal(t, uint32(2), tex.Height)
	assert.Equal(t, TextureFormatRGBA8Unorm, tex.Format)
	require.Len(t, tex.Texels, 3*2*4)
	// pixel (1, 1)
	assert.Equal(t, []uint8{100, 100, 7, 255}, tex.Texels[(1*3+1)*4:(1*3+1)*4+4])

	again, err := server.LoadTexture(path)
	require.NoError(t, err)
	assert.Equal(t, id, again, "a path is decoded once")
	assert.Equal(t, 1, server.Len())
}

func TestAssetServer_LoadBMP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, testImage(4, 4)))
	path := filepath.Join(t.TempDir(), "a.bmp")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	id, err := NewAssetServer().LoadTexture(path)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestAssetServer_Errors(t *testing.T) {
	dir := t.TempDir()
	server := NewAssetServer()

	_, err := server.LoadTexture(filepath.Join(dir, "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	junk := filepath.Join(dir, "junk.png")
	require.NoError(t, os.WriteFile(junk, []byte("not an image"), 0o644))
	_, err = server.LoadTexture(junk)
	assert.Error(t, err)
}

func TestAssetServer_LoadSceneTextures(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "skin.png", 1, 1)
	scene := armScene(t)
	object(t, scene, "arm").Material.Texture = "skin.png"
	object(t, scene, "finger").Material.Texture = "nail.png"

	var logs bytes.Buffer
	log := NewWriterLogger("", false, &logs, &logs)

	err := NewAssetServer().LoadSceneTextures(scene, dir, true, log)
	assert.ErrorContains(t, err, `object "finger"`)

	server := NewAssetServer()
	require.NoError(t, server.LoadSceneTextures(scene, dir, false, log))
	assert.NotEmpty(t, server.TextureFor("skin.png"))
	assert.Empty(t, server.TextureFor("nail.png"))
	assert.Contains(t, logs.String(), "WARN")
}

func TestTexturePath(t *testing.T) {
	assert.Equal(t, filepath.Join("scenes", "a.png"), TexturePath("scenes", "a.png"))
	assert.Equal(t, "a.png", TexturePath("", "a.png"))
	abs := filepath.Join(string(filepath.Separator), "tmp", "a.png")
	assert.Equal(t, abs, TexturePath("scenes", abs))
}
