// Command molsurf-vkview demonstrates that a computed Mesh is
// renderer-API-agnostic by uploading the same positions/normals/indices
// buffers through Vulkan instead of OpenGL.
//
// It is a headless instance -> physical device -> logical device -> buffer
// scaffold, not a full windowed swapchain: presenting to a surface needs a
// platform-specific WSI extension negotiation, so rather than guess at
// that sequence this keeps to the part of the Vulkan API that is
// unambiguous: creating an instance and device and copying the mesh's
// vertex/index bytes into host-visible, host-coherent buffer memory by
// mapping it directly (no staging buffer, no device-local copy).
package main

import (
	"flag"
	"fmt"
	"log"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"

	"github.com/molsurf/molsurf/pkg/atomio"
	"github.com/molsurf/molsurf/pkg/molsurf"
)

func main() {
	atomsPath := flag.String("atoms", "", "path to an atom list (.json or whitespace/CSV text)")
	kind := flag.String("kind", "ses", "surface kind: vdw|sas|ses|ms")
	probe := flag.Float64("probe", molsurf.ProbeDefault, "probe radius (world units)")
	flag.Parse()

	if *atomsPath == "" {
		log.Fatal("molsurf-vkview: -atoms is required")
	}
	atoms, err := atomio.Load(*atomsPath)
	if err != nil {
		log.Fatalf("molsurf-vkview: %v", err)
	}

	mesh, err := compute(atoms, *kind, *probe)
	if err != nil {
		log.Fatalf("molsurf-vkview: %v", err)
	}
	log.Printf("molsurf-vkview: %s surface: %d vertices, %d triangles", *kind, len(mesh.Positions)/3, len(mesh.Indices)/3)

	if err := uploadViaVulkan(mesh); err != nil {
		log.Fatalf("molsurf-vkview: %v", err)
	}
	log.Println("molsurf-vkview: mesh buffers uploaded to host-visible Vulkan memory")
}

func compute(atoms []molsurf.Atom, kind string, probe float64) (*molsurf.Mesh, error) {
	opts := molsurf.Options{ProbeRadius: probe}
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
		return nil, fmt.Errorf("unknown surface kind %q (want vdw|sas|ses|ms)", kind)
	}
}

// vkCtx bundles the instance/device handles the rest of the program needs,
// torn down in reverse-acquisition order by close().
type vkCtx struct {
	instance vk.Instance
	gpu      vk.PhysicalDevice
	device   vk.Device
	queue    vk.Queue
	queueIdx uint32
}

func newVkCtx() (*vkCtx, error) {
	if err := vk.Init(); err != nil {
		return nil, fmt.Errorf("vk.Init: %w", err)
	}

	appInfo := &vk.ApplicationInfo{
		SType:         vk.StructureTypeApplicationInfo,
		PApplicationName: "molsurf-vkview\x00",
		ApiVersion:    vk.MakeVersion(1, 0, 0),
		EngineVersion: vk.MakeVersion(1, 0, 0),
		PEngineName:   "molsurf\x00",
	}
	instInfo := vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: appInfo,
	}

	var instance vk.Instance
	if ret := vk.CreateInstance(&instInfo, nil, &instance); ret != vk.Success {
		return nil, fmt.Errorf("vk.CreateInstance: %v", ret)
	}
	if err := vk.InitInstance(instance); err != nil {
		return nil, fmt.Errorf("vk.InitInstance: %w", err)
	}

	var gpuCount uint32
	vk.EnumeratePhysicalDevices(instance, &gpuCount, nil)
	if gpuCount == 0 {
		vk.DestroyInstance(instance, nil)
		return nil, fmt.Errorf("no Vulkan-capable physical device found")
	}
	gpus := make([]vk.PhysicalDevice, gpuCount)
	vk.EnumeratePhysicalDevices(instance, &gpuCount, gpus)
	gpu := gpus[0]

	var famCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &famCount, nil)
	families := make([]vk.QueueFamilyProperties, famCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &famCount, families)

	queueIdx := uint32(0)
	found := false
	for i, fam := range families {
		fam.Deref()
		if fam.QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
			queueIdx = uint32(i)
			found = true
			break
		}
	}
	if !found {
		vk.DestroyInstance(instance, nil)
		return nil, fmt.Errorf("no graphics-capable queue family found")
	}

	priorities := []float32{1.0}
	queueInfo := vk.DeviceQueueCreateInfo{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: queueIdx,
		QueueCount:       1,
		PQueuePriorities: priorities,
	}
	deviceInfo := vk.DeviceCreateInfo{
		SType:                vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount: 1,
		PQueueCreateInfos:    []vk.DeviceQueueCreateInfo{queueInfo},
	}

	var device vk.Device
	if ret := vk.CreateDevice(gpu, &deviceInfo, nil, &device); ret != vk.Success {
		vk.DestroyInstance(instance, nil)
		return nil, fmt.Errorf("vk.CreateDevice: %v", ret)
	}

	var queue vk.Queue
	vk.GetDeviceQueue(device, queueIdx, 0, &queue)

	return &vkCtx{instance: instance, gpu: gpu, device: device, queue: queue, queueIdx: queueIdx}, nil
}

func (c *vkCtx) close() {
	vk.DeviceWaitIdle(c.device)
	vk.DestroyDevice(c.device, nil)
	vk.DestroyInstance(c.instance, nil)
}

// uploadViaVulkan moves positions, normals and indices into three
// host-visible buffers, mirroring the upload that cmd/molsurf-view does
// through gl.BufferData, proving the Mesh contract needs nothing
// OpenGL-specific.
func uploadViaVulkan(mesh *molsurf.Mesh) error {
	ctx, err := newVkCtx()
	if err != nil {
		return err
	}
	defer ctx.close()

	if err := ctx.uploadBuffer(float32Bytes(mesh.Positions), vk.BufferUsageVertexBufferBit); err != nil {
		return fmt.Errorf("positions: %w", err)
	}
	if err := ctx.uploadBuffer(float32Bytes(mesh.Normals), vk.BufferUsageVertexBufferBit); err != nil {
		return fmt.Errorf("normals: %w", err)
	}
	if err := ctx.uploadBuffer(uint32Bytes(mesh.Indices), vk.BufferUsageIndexBufferBit); err != nil {
		return fmt.Errorf("indices: %w", err)
	}
	return nil
}

func (c *vkCtx) uploadBuffer(data []byte, usage vk.BufferUsageFlagBits) error {
	if len(data) == 0 {
		return nil
	}

	bufInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(len(data)),
		Usage:       vk.BufferUsageFlags(usage),
		SharingMode: vk.SharingModeExclusive,
	}
	var buffer vk.Buffer
	if ret := vk.CreateBuffer(c.device, &bufInfo, nil, &buffer); ret != vk.Success {
		return fmt.Errorf("vk.CreateBuffer: %v", ret)
	}
	defer vk.DestroyBuffer(c.device, buffer, nil)

	var memReqs vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(c.device, buffer, &memReqs)
	memReqs.Deref()

	var memProps vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(c.gpu, &memProps)
	memProps.Deref()

	typeIdx, ok := findMemoryType(memProps, memReqs.MemoryTypeBits,
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if !ok {
		return fmt.Errorf("no host-visible memory type for this buffer")
	}

	allocInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  memReqs.Size,
		MemoryTypeIndex: typeIdx,
	}
	var mem vk.DeviceMemory
	if ret := vk.AllocateMemory(c.device, &allocInfo, nil, &mem); ret != vk.Success {
		return fmt.Errorf("vk.AllocateMemory: %v", ret)
	}
	defer vk.FreeMemory(c.device, mem, nil)

	if ret := vk.BindBufferMemory(c.device, buffer, mem, 0); ret != vk.Success {
		return fmt.Errorf("vk.BindBufferMemory: %v", ret)
	}

	var mapped unsafe.Pointer
	if ret := vk.MapMemory(c.device, mem, 0, vk.DeviceSize(len(data)), 0, &mapped); ret != vk.Success {
		return fmt.Errorf("vk.MapMemory: %v", ret)
	}
	vk.Memcopy(mapped, data)
	vk.UnmapMemory(c.device, mem)
	return nil
}

func findMemoryType(props vk.PhysicalDeviceMemoryProperties, typeBits uint32, want vk.MemoryPropertyFlags) (uint32, bool) {
	for i := uint32(0); i < props.MemoryTypeCount; i++ {
		t := props.MemoryTypes[i]
		t.Deref()
		if typeBits&(1<<i) == 0 {
			continue
		}
		if vk.MemoryPropertyFlags(t.PropertyFlags)&want == want {
			return i, true
		}
	}
	return 0, false
}

func float32Bytes(v []float32) []byte {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*4)
}

func uint32Bytes(v []uint32) []byte {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*4)
}
