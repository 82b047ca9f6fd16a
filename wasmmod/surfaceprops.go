package wasmmod

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	"github.com/voltworks/volt-shim/physics"
)

// surfaceDelegate drives a guest VoltSurfaceProps001 table.
type surfaceDelegate struct {
	m     *Module
	token uint32
}

func (d *surfaceDelegate) call(ctx context.Context, export string, params ...uint64) ([]uint64, error) {
	return d.m.call(ctx, physics.SurfacePropsVersion, export, append([]uint64{uint64(d.token)}, params...)...)
}

func (d *surfaceDelegate) callOne(ctx context.Context, export string, params ...uint64) (uint64, error) {
	return d.m.callOne(ctx, physics.SurfacePropsVersion, export, append([]uint64{uint64(d.token)}, params...)...)
}

func (d *surfaceDelegate) ParseSurfaceData(ctx context.Context, filename, text string) (int, error) {
	filePtr, err := d.m.allocString(ctx, filename)
	if err != nil {
		return 0, err
	}
	defer d.m.free(ctx, filePtr, uint32(len(filename)))

	textPtr, err := d.m.allocString(ctx, text)
	if err != nil {
		return 0, err
	}
	defer d.m.free(ctx, textPtr, uint32(len(text)))

	res, err := d.callOne(ctx, "surface-props-parse-surface-data",
		uint64(filePtr), uint64(len(filename)), uint64(textPtr), uint64(len(text)))
	if err != nil {
		return 0, err
	}
	return int(api.DecodeI32(res)), nil
}

func (d *surfaceDelegate) SurfacePropCount(ctx context.Context) (int, error) {
	res, err := d.callOne(ctx, "surface-props-surface-prop-count")
	if err != nil {
		return 0, err
	}
	return int(api.DecodeI32(res)), nil
}

func (d *surfaceDelegate) GetSurfaceIndex(ctx context.Context, name string) (int, error) {
	namePtr, err := d.m.allocString(ctx, name)
	if err != nil {
		return 0, err
	}
	defer d.m.free(ctx, namePtr, uint32(len(name)))

	res, err := d.callOne(ctx, "surface-props-get-surface-index",
		uint64(namePtr), uint64(len(name)))
	if err != nil {
		return 0, err
	}
	return int(api.DecodeI32(res)), nil
}

func (d *surfaceDelegate) GetPhysicsProperties(ctx context.Context, surfaceIndex int) (density, thickness, friction, elasticity float32, err error) {
	ptr, err := d.m.allocRaw(ctx, physPropsOutSize)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	defer d.m.free(ctx, ptr, physPropsOutSize)

	if _, err := d.call(ctx, "surface-props-get-physics-properties",
		api.EncodeI32(int32(surfaceIndex)), uint64(ptr)); err != nil {
		return 0, 0, 0, 0, err
	}
	b, err := d.m.memRead(ptr, physPropsOutSize)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	return getF32(b[0:]), getF32(b[4:]), getF32(b[8:]), getF32(b[12:]), nil
}

func (d *surfaceDelegate) GetSurfaceData(ctx context.Context, surfaceIndex int) (physics.SurfaceData, error) {
	ptr, err := d.m.allocRaw(ctx, surfaceDataSize)
	if err != nil {
		return physics.SurfaceData{}, err
	}
	defer d.m.free(ctx, ptr, surfaceDataSize)

	if _, err := d.call(ctx, "surface-props-get-surface-data",
		api.EncodeI32(int32(surfaceIndex)), uint64(ptr)); err != nil {
		return physics.SurfaceData{}, err
	}
	b, err := d.m.memRead(ptr, surfaceDataSize)
	if err != nil {
		return physics.SurfaceData{}, err
	}
	return decodeSurfaceData(b)
}

func (d *surfaceDelegate) GetString(ctx context.Context, index physics.StringTableIndex) (string, error) {
	packed, err := d.callOne(ctx, "surface-props-get-string", uint64(index))
	if err != nil {
		return "", err
	}
	return d.m.readPackedString(ctx, packed)
}

func (d *surfaceDelegate) GetPropName(ctx context.Context, surfaceIndex int) (string, error) {
	packed, err := d.callOne(ctx, "surface-props-get-prop-name", api.EncodeI32(int32(surfaceIndex)))
	if err != nil {
		return "", err
	}
	return d.m.readPackedString(ctx, packed)
}

func (d *surfaceDelegate) GetPhysicsParameters(ctx context.Context, surfaceIndex int) (physics.SurfacePhysicsParams, error) {
	ptr, err := d.m.allocRaw(ctx, physParamsSize)
	if err != nil {
		return physics.SurfacePhysicsParams{}, err
	}
	defer d.m.free(ctx, ptr, physParamsSize)

	if _, err := d.call(ctx, "surface-props-get-physics-parameters",
		api.EncodeI32(int32(surfaceIndex)), uint64(ptr)); err != nil {
		return physics.SurfacePhysicsParams{}, err
	}
	b, err := d.m.memRead(ptr, physParamsSize)
	if err != nil {
		return physics.SurfacePhysicsParams{}, err
	}
	return decodePhysicsParams(b)
}

func (d *surfaceDelegate) SetWorldMaterialIndexTable(ctx context.Context, table []int32) error {
	data := encodeI32s(table)
	ptr, err := d.m.allocBytes(ctx, data)
	if err != nil {
		return err
	}
	defer d.m.free(ctx, ptr, uint32(len(data)))

	_, err = d.call(ctx, "surface-props-set-world-material-index-table",
		uint64(ptr), uint64(len(table)))
	return err
}

var _ physics.SurfaceProps = (*surfaceDelegate)(nil)
