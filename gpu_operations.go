package pivot

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
)

const depthFormat = wgpu.TextureFormatDepth24Plus

type GpuState struct {
	surface       *wgpu.Surface
	adapter       *wgpu.Adapter
	device        *wgpu.Device
	queue         *wgpu.Queue
	surfaceConfig *wgpu.SurfaceConfiguration
}

func createGpuState(s *WindowState) (*GpuState, error) {
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()
	// wraps GLFW window into a wgpu surface.
	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(s.windowGlfw))
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		surface.Release()
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		adapter.Release()
		surface.Release()
		return nil, fmt.Errorf("request device: %w", err)
	}
	queue := device.GetQueue()

	width, height := s.FramebufferSize()
	caps := surface.GetCapabilities(adapter)
	surfaceConfig := wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo, // vsync
		AlphaMode:   caps.AlphaModes[0],
	}

	surface.Configure(adapter, device, &surfaceConfig)

	return &GpuState{
		surface:       surface,
		adapter:       adapter,
		device:        device,
		queue:         queue,
		surfaceConfig: &surfaceConfig,
	}, nil
}

// resize reconfigures the surface when the framebuffer changed size. It
// reports whether anything changed.
func (g *GpuState) resize(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	if uint32(width) == g.surfaceConfig.Width && uint32(height) == g.surfaceConfig.Height {
		return false
	}
	g.surfaceConfig.Width = uint32(width)
	g.surfaceConfig.Height = uint32(height)
	g.surface.Configure(g.adapter, g.device, g.surfaceConfig)
	return true
}

func (g *GpuState) release() {
	g.queue.Release()
	g.device.Release()
	g.adapter.Release()
	g.surface.Release()
}

func createDepthView(gpuState *GpuState) (*wgpu.Texture, *wgpu.TextureView, error) {
	texture, err := gpuState.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              gpuState.surfaceConfig.Width,
			Height:             gpuState.surfaceConfig.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return nil, nil, err
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, nil, err
	}
	return texture, view, nil
}

// Interleaved vertex layout: position xyz at location 0, uv at location 1.
const vertexFloats = 3 + 2

// createRenderPipeline builds a pipeline over interleaved position/uv
// vertices with depth testing and alpha blending.
func createRenderPipeline(name string, shaderCode string, gpuState *GpuState) (*wgpu.RenderPipeline, error) {
	shader, err := gpuState.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          name,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaderCode},
	})
	if err != nil {
		return nil, err
	}
	defer shader.Release()

	vertexBufferLayout := wgpu.VertexBufferLayout{
		ArrayStride: vertexFloats * 4,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{ShaderLocation: 0, Offset: 0, Format: wgpu.VertexFormatFloat32x3},
			{ShaderLocation: 1, Offset: 3 * 4, Format: wgpu.VertexFormatFloat32x2},
		},
	}

	return gpuState.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: name,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{vertexBufferLayout},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format: gpuState.surfaceConfig.Format,
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							SrcFactor: wgpu.BlendFactorSrcAlpha,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
							Operation: wgpu.BlendOperationAdd,
						},
						Alpha: wgpu.BlendComponent{
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
							Operation: wgpu.BlendOperationAdd,
						},
					},
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone, // scene winding is not normalized
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
		Multisample: wgpu.MultisampleState{
			Count:                  1,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
	})
}

func createBuffer(name string, contents []byte, gpuState *GpuState, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	buffer, err := gpuState.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    name,
		Contents: contents,
		Usage:    usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create buffer %s: %w", name, err)
	}
	return buffer, nil
}

func createBindGroup(buffer *wgpu.Buffer, pipeline *wgpu.RenderPipeline, gpuState *GpuState) (*wgpu.BindGroup, error) {
	layout := pipeline.GetBindGroupLayout(0)
	defer layout.Release()

	return gpuState.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: buffer, Size: wgpu.WholeSize},
		},
	})
}

// createTextureFromAsset uploads RGBA8 texels into a sampled 2D texture.
func createTextureFromAsset(name string, tex TextureAsset, gpuState *GpuState) (*wgpu.Texture, *wgpu.TextureView, error) {
	extent := wgpu.Extent3D{
		Width:              tex.Width,
		Height:             tex.Height,
		DepthOrArrayLayers: 1,
	}
	texture, err := gpuState.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         name,
		Size:          extent,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormat(tex.Format),
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create texture %s: %w", name, err)
	}

	err = gpuState.queue.WriteTexture(
		texture.AsImageCopy(),
		tex.Texels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  tex.Width * 4,
			RowsPerImage: tex.Height,
		},
		&extent,
	)
	if err != nil {
		texture.Release()
		return nil, nil, fmt.Errorf("write texture %s: %w", name, err)
	}

	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, nil, fmt.Errorf("create texture view %s: %w", name, err)
	}
	return texture, view, nil
}

func createSampler(gpuState *GpuState) (*wgpu.Sampler, error) {
	return gpuState.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Material Sampler",
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0.,
		LodMaxClamp:   1.,
		Compare:       wgpu.CompareFunctionUndefined,
		MaxAnisotropy: 1,
	})
}

// createTextureBindGroup binds a texture and sampler at group 1.
func createTextureBindGroup(view *wgpu.TextureView, sampler *wgpu.Sampler, pipeline *wgpu.RenderPipeline, gpuState *GpuState) (*wgpu.BindGroup, error) {
	layout := pipeline.GetBindGroupLayout(1)
	defer layout.Release()

	return gpuState.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: view},
			{Binding: 1, Sampler: sampler},
		},
	})
}
