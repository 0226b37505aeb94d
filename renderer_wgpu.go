package pivot

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

const unlitShader = `
struct Uniforms {
	view_proj: mat4x4<f32>,
	world: mat4x4<f32>,
	color: vec4<f32>,
};

@group(0) @binding(0) var<uniform> u: Uniforms;
@group(1) @binding(0) var material_texture: texture_2d<f32>;
@group(1) @binding(1) var material_sampler: sampler;

struct VertexOut {
	@builtin(position) position: vec4<f32>,
	@location(0) uv: vec2<f32>,
};

@vertex
fn vs_main(@location(0) pos: vec3<f32>, @location(1) uv: vec2<f32>) -> VertexOut {
	var out: VertexOut;
	out.position = u.view_proj * u.world * vec4<f32>(pos, 1.0);
	out.uv = uv;
	return out;
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
	let texel = textureSample(material_texture, material_sampler, in.uv);
	return vec4<f32>(u.color.rgb * texel.rgb, u.color.a);
}
`

// viewProj, world and color, tightly packed as the shader expects.
const uniformFloats = 16 + 16 + 4

type gpuMesh struct {
	vertex     *wgpu.Buffer
	index      *wgpu.Buffer
	indexCount uint32
}

type gpuTexture struct {
	texture   *wgpu.Texture
	view      *wgpu.TextureView
	bindGroup *wgpu.BindGroup
}

func (t gpuTexture) release() {
	t.bindGroup.Release()
	t.view.Release()
	t.texture.Release()
}

type uniformSlot struct {
	buffer    *wgpu.Buffer
	bindGroup *wgpu.BindGroup
}

// WGPUBackend draws frames with one unlit pipeline. Each object is filled
// with its material's diffuse colour and alpha, modulated by its texture
// when it has one. Untextured objects sample a white texel.
type WGPUBackend struct {
	window   *WindowState
	gpu      *GpuState
	pipeline *wgpu.RenderPipeline
	sampler  *wgpu.Sampler

	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView

	meshes   map[AssetId]gpuMesh
	textures map[AssetId]gpuTexture
	white    gpuTexture
	slots    []uniformSlot

	ClearColor wgpu.Color
}

func NewWGPUBackend(window *WindowState) (*WGPUBackend, error) {
	gpu, err := createGpuState(window)
	if err != nil {
		return nil, err
	}
	pipeline, err := createRenderPipeline("Unlit Pipeline", unlitShader, gpu)
	if err != nil {
		gpu.release()
		return nil, fmt.Errorf("create pipeline: %w", err)
	}
	b := &WGPUBackend{
		window:     window,
		gpu:        gpu,
		pipeline:   pipeline,
		meshes:     make(map[AssetId]gpuMesh),
		textures:   make(map[AssetId]gpuTexture),
		ClearColor: wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1.0},
	}
	if b.sampler, err = createSampler(gpu); err != nil {
		b.Release()
		return nil, fmt.Errorf("create sampler: %w", err)
	}
	white := TextureAsset{Texels: []uint8{255, 255, 255, 255}, Width: 1, Height: 1, Format: TextureFormatRGBA8Unorm}
	if b.white, err = b.newTexture("white", white); err != nil {
		b.Release()
		return nil, err
	}
	if err := b.recreateDepth(); err != nil {
		b.Release()
		return nil, err
	}
	return b, nil
}

func (b *WGPUBackend) newTexture(name string, tex TextureAsset) (gpuTexture, error) {
	texture, view, err := createTextureFromAsset(name, tex, b.gpu)
	if err != nil {
		return gpuTexture{}, err
	}
	bindGroup, err := createTextureBindGroup(view, b.sampler, b.pipeline, b.gpu)
	if err != nil {
		view.Release()
		texture.Release()
		return gpuTexture{}, fmt.Errorf("create texture bind group %s: %w", name, err)
	}
	return gpuTexture{texture: texture, view: view, bindGroup: bindGroup}, nil
}

func (b *WGPUBackend) recreateDepth() error {
	if b.depthView != nil {
		b.depthView.Release()
		b.depthTexture.Release()
	}
	texture, view, err := createDepthView(b.gpu)
	if err != nil {
		b.depthTexture, b.depthView = nil, nil
		return fmt.Errorf("create depth texture: %w", err)
	}
	b.depthTexture, b.depthView = texture, view
	return nil
}

func (b *WGPUBackend) UploadMesh(mesh Mesh) (AssetId, error) {
	if len(mesh.Positions) == 0 || len(mesh.Indices) == 0 {
		return "", fmt.Errorf("upload %q: empty mesh", mesh.Name)
	}
	vertices, err := interleaveVertices(mesh)
	if err != nil {
		return "", err
	}

	vertex, err := createBuffer(mesh.Name+" vertices", wgpu.ToBytes(vertices), b.gpu, wgpu.BufferUsageVertex)
	if err != nil {
		return "", err
	}
	index, err := createBuffer(mesh.Name+" indices", wgpu.ToBytes(mesh.Indices), b.gpu, wgpu.BufferUsageIndex)
	if err != nil {
		vertex.Release()
		return "", err
	}

	id := makeAssetId()
	b.meshes[id] = gpuMesh{vertex: vertex, index: index, indexCount: uint32(len(mesh.Indices))}
	return id, nil
}

// interleaveVertices packs position and uv per vertex. Meshes without UVs
// get zero coordinates.
func interleaveVertices(mesh Mesh) ([]float32, error) {
	if len(mesh.UVs) != 0 && len(mesh.UVs) != len(mesh.Positions) {
		return nil, fmt.Errorf("upload %q: %d uvs for %d vertices", mesh.Name, len(mesh.UVs), len(mesh.Positions))
	}
	data := make([]float32, 0, len(mesh.Positions)*vertexFloats)
	for i, p := range mesh.Positions {
		var uv mgl32.Vec2
		if len(mesh.UVs) != 0 {
			uv = mesh.UVs[i]
		}
		data = append(data, p[0], p[1], p[2], uv[0], uv[1])
	}
	return data, nil
}

func (b *WGPUBackend) UploadTexture(tex TextureAsset) (AssetId, error) {
	if err := validateTexture(tex); err != nil {
		return "", err
	}
	gt, err := b.newTexture(tex.Path, tex)
	if err != nil {
		return "", err
	}
	id := makeAssetId()
	b.textures[id] = gt
	return id, nil
}

// ensureSlots grows the uniform pool to at least n entries.
func (b *WGPUBackend) ensureSlots(n int) error {
	for len(b.slots) < n {
		buffer, err := createBuffer(
			fmt.Sprintf("uniforms %d", len(b.slots)),
			make([]byte, uniformFloats*4),
			b.gpu,
			wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst,
		)
		if err != nil {
			return err
		}
		bindGroup, err := createBindGroup(buffer, b.pipeline, b.gpu)
		if err != nil {
			buffer.Release()
			return fmt.Errorf("create bind group: %w", err)
		}
		b.slots = append(b.slots, uniformSlot{buffer: buffer, bindGroup: bindGroup})
	}
	return nil
}

func packUniforms(viewProj, world mgl32.Mat4, color mgl32.Vec4) []float32 {
	data := make([]float32, 0, uniformFloats)
	data = append(data, viewProj[:]...)
	data = append(data, world[:]...)
	return append(data, color[:]...)
}

func (b *WGPUBackend) DrawFrame(frame Frame) error {
	if b.gpu.resize(b.window.FramebufferSize()) {
		if err := b.recreateDepth(); err != nil {
			return err
		}
	}
	if err := b.ensureSlots(len(frame.Items)); err != nil {
		return err
	}

	viewProj := frame.Projection.Mul4(frame.View)
	for i, item := range frame.Items {
		data := packUniforms(viewProj, item.World, item.Material.Color())
		b.gpu.queue.WriteBuffer(b.slots[i].buffer, 0, wgpu.ToBytes(data))
	}

	surfaceTexture, err := b.gpu.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("acquire surface texture: %w", err)
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create view: %w", err)
	}
	defer view.Release()

	encoder, err := b.gpu.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: b.ClearColor,
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	})
	pass.SetPipeline(b.pipeline)
	for i, item := range frame.Items {
		mesh, ok := b.meshes[item.Mesh]
		if !ok {
			continue
		}
		texture := b.white
		if t, ok := b.textures[item.Texture]; ok {
			texture = t
		}
		pass.SetBindGroup(0, b.slots[i].bindGroup, nil)
		pass.SetBindGroup(1, texture.bindGroup, nil)
		pass.SetVertexBuffer(0, mesh.vertex, 0, wgpu.WholeSize)
		pass.SetIndexBuffer(mesh.index, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(mesh.indexCount, 1, 0, 0, 0)
	}
	if err := pass.End(); err != nil {
		return fmt.Errorf("end render pass: %w", err)
	}
	pass.Release()

	cmdBuf, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish encoder: %w", err)
	}
	defer cmdBuf.Release()

	b.gpu.queue.Submit(cmdBuf)
	b.gpu.surface.Present()
	return nil
}

func (b *WGPUBackend) Release() {
	for id, mesh := range b.meshes {
		mesh.vertex.Release()
		mesh.index.Release()
		delete(b.meshes, id)
	}
	for id, texture := range b.textures {
		texture.release()
		delete(b.textures, id)
	}
	if b.white.bindGroup != nil {
		b.white.release()
		b.white = gpuTexture{}
	}
	if b.sampler != nil {
		b.sampler.Release()
		b.sampler = nil
	}
	for _, slot := range b.slots {
		slot.bindGroup.Release()
		slot.buffer.Release()
	}
	b.slots = nil
	if b.depthView != nil {
		b.depthView.Release()
		b.depthTexture.Release()
		b.depthView, b.depthTexture = nil, nil
	}
	if b.pipeline != nil {
		b.pipeline.Release()
		b.pipeline = nil
	}
	if b.gpu != nil {
		b.gpu.release()
		b.gpu = nil
	}
}
