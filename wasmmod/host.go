package wasmmod

import (
	"context"
	"encoding/binary"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"
)

// HostModule is the import namespace engine modules link against.
const HostModule = "volt-host"

func (e *Engine) instantiateHost(ctx context.Context) error {
	_, err := e.runtime.NewHostModuleBuilder(HostModule).
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(e.hostCreateInterface),
			[]api.ValueType{api.ValueTypeI32, api.ValueTypeI32},
			[]api.ValueType{api.ValueTypeI32}).
		Export("create-interface").
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(e.hostConvexContents),
			[]api.ValueType{api.ValueTypeI32, api.ValueTypeI32},
			[]api.ValueType{api.ValueTypeI32}).
		Export("convex-contents").
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(e.hostVirtualMesh),
			[]api.ValueType{
				api.ValueTypeI32, api.ValueTypeI64,
				api.ValueTypeI32, api.ValueTypeI32,
				api.ValueTypeI32, api.ValueTypeI32,
				api.ValueTypeI32,
			},
			[]api.ValueType{api.ValueTypeI32}).
		Export("virtual-mesh").
		Instantiate(ctx)
	return err
}

// hostCreateInterface resolves a named interface through the factory
// the guest's Connect registered. Returns an opaque value handle, 0 on
// failure.
func (e *Engine) hostCreateInterface(ctx context.Context, guest api.Module, stack []uint64) {
	namePtr, nameLen := uint32(stack[0]), uint32(stack[1])
	stack[0] = 0

	m := e.moduleFor(guest)
	if m == nil {
		return
	}
	raw, ok := guest.Memory().Read(namePtr, nameLen)
	if !ok {
		m.log.Warn("create-interface name out of bounds",
			zap.Uint32("ptr", namePtr), zap.Uint32("len", nameLen))
		return
	}
	name := string(raw)

	factory := m.currentFactory()
	if factory == nil {
		m.log.Warn("create-interface with no factory connected",
			zap.String("interface", name))
		return
	}
	value, err := factory(name)
	if err != nil || value == nil {
		m.log.Debug("factory lookup failed",
			zap.String("interface", name), zap.Error(err))
		return
	}
	stack[0] = uint64(m.storeValue(value))
}

// hostConvexContents answers a contents query for a filtered trace.
func (e *Engine) hostConvexContents(ctx context.Context, guest api.Module, stack []uint64) {
	infoID, gameData := uint32(stack[0]), uint32(stack[1])
	stack[0] = 0

	m := e.moduleFor(guest)
	if m == nil {
		return
	}
	info := m.convexInfo(infoID)
	if info == nil {
		m.log.Warn("convex-contents with unknown info id", zap.Uint32("id", infoID))
		return
	}
	contents, err := info.Contents(ctx, gameData)
	if err != nil {
		m.log.Warn("convex contents callback failed", zap.Error(err))
		return
	}
	stack[0] = uint64(contents)
}

// hostVirtualMesh fills guest-allocated buffers from a registered
// VirtualMeshHandler. Returns 0 on success, 1 on failure or when the
// mesh does not fit the buffers.
func (e *Engine) hostVirtualMesh(ctx context.Context, guest api.Module, stack []uint64) {
	handlerID := uint32(stack[0])
	userData := stack[1]
	vertsPtr, maxVerts := uint32(stack[2]), uint32(stack[3])
	indicesPtr, maxIndices := uint32(stack[4]), uint32(stack[5])
	outPtr := uint32(stack[6])
	stack[0] = 1

	m := e.moduleFor(guest)
	if m == nil {
		return
	}
	handler := m.meshHandler(handlerID)
	if handler == nil {
		m.log.Warn("virtual-mesh with unknown handler id", zap.Uint32("id", handlerID))
		return
	}

	list, err := handler.GetVirtualMesh(ctx, userData)
	if err != nil {
		m.log.Warn("virtual mesh callback failed", zap.Error(err))
		return
	}
	if uint32(len(list.Verts)) > maxVerts || uint32(len(list.Indices)) > maxIndices {
		m.log.Warn("virtual mesh exceeds guest buffers",
			zap.Int("verts", len(list.Verts)), zap.Uint32("max_verts", maxVerts),
			zap.Int("indices", len(list.Indices)), zap.Uint32("max_indices", maxIndices))
		return
	}

	mem := guest.Memory()
	if len(list.Verts) > 0 && !mem.Write(vertsPtr, encodeVectors(list.Verts)) {
		return
	}
	if len(list.Indices) > 0 && !mem.Write(indicesPtr, encodeU16s(list.Indices)) {
		return
	}

	out := make([]byte, virtualMeshOutSize)
	binary.LittleEndian.PutUint32(out[0:], uint32(len(list.Verts)))
	binary.LittleEndian.PutUint32(out[4:], uint32(len(list.Indices)))
	binary.LittleEndian.PutUint32(out[8:], uint32(int32(list.SurfacePropsIndex)))
	if !mem.Write(outPtr, out) {
		return
	}
	stack[0] = 0
}
