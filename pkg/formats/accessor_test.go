package formats

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

// encodeComponent writes v as one little-endian component of type ct.
func encodeComponent(ct ComponentType, v float64) []byte {
	switch ct {
	case ComponentInt8:
		return []byte{byte(int8(v))}
	case ComponentUint8:
		return []byte{uint8(v)}
	case ComponentInt16:
		return binary.LittleEndian.AppendUint16(nil, uint16(int16(v)))
	case ComponentUint16:
		return binary.LittleEndian.AppendUint16(nil, uint16(v))
	case ComponentInt32:
		return binary.LittleEndian.AppendUint32(nil, uint32(int32(v)))
	case ComponentUint32:
		return binary.LittleEndian.AppendUint32(nil, uint32(v))
	case ComponentFloat32:
		return binary.LittleEndian.AppendUint32(nil, math.Float32bits(float32(v)))
	case ComponentFloat64:
		return binary.LittleEndian.AppendUint64(nil, math.Float64bits(v))
	}
	return nil
}

var sampleValues = map[ComponentType][]float64{
	ComponentInt8:    {-128, -1, 0, 127},
	ComponentUint8:   {0, 1, 200, 255},
	ComponentInt16:   {-32768, -2, 300, 32767},
	ComponentUint16:  {0, 65535, 1234, 7},
	ComponentInt32:   {-2147483648, -5, 70000, 2147483647},
	ComponentUint32:  {0, 4294967295, 99, 123456},
	ComponentFloat32: {-1.5, 0.25, 3.4e38, 1e-10},
	ComponentFloat64: {-1.5, math.Pi, 1e300, math.Copysign(0, -1)},
}

// makeStridedDocument stores count elements of the given type and shape with
// padding after every element and junk bytes ahead of the view.
func makeStridedDocument(ct ComponentType, shape ElementShape, count int) (*Document, []float64) {
	n := shape.Components()
	elemSize := ct.Size() * n
	stride := elemSize + 4
	values := sampleValues[ct]

	data := []byte{0xde, 0xad, 0xbe, 0xef, 0xde, 0xad, 0xbe, 0xef} // view offset
	data = append(data, 0xaa, 0xbb, 0xcc, 0xdd)                    // accessor offset
	var want []float64
	for e := 0; e < count; e++ {
		for c := 0; c < n; c++ {
			v := values[(e*n+c)%len(values)]
			want = append(want, v)
			data = append(data, encodeComponent(ct, v)...)
		}
		data = append(data, 0xff, 0xff, 0xff, 0xff)
	}

	doc := &Document{
		Buffers:     []Buffer{{Data: data}},
		BufferViews: []BufferView{{Buffer: 0, ByteOffset: 8, ByteLength: len(data) - 8, ByteStride: stride}},
		Accessors: []Accessor{{
			BufferView:    0,
			ByteOffset:    4,
			ComponentType: ct,
			Shape:         shape,
			Count:         count,
		}},
	}
	return doc, want
}

func TestDecodeRoundTrip(t *testing.T) {
	types := []ComponentType{
		ComponentInt8, ComponentUint8, ComponentInt16, ComponentUint16,
		ComponentInt32, ComponentUint32, ComponentFloat32, ComponentFloat64,
	}
	shapes := []ElementShape{ShapeScalar, ShapeVec2, ShapeVec3, ShapeVec4}

	for _, ct := range types {
		for _, shape := range shapes {
			t.Run(ct.String()+"/"+shape.String(), func(t *testing.T) {
				doc, want := makeStridedDocument(ct, shape, 3)
				acc := &doc.Accessors[0]

				switch ct {
				case ComponentFloat32:
					got, err := Decode[float32](doc, acc, shape)
					if err != nil {
						t.Fatalf("Decode() error = %v", err)
					}
					if len(got) != len(want) {
						t.Fatalf("Decode() returned %d values, want %d", len(got), len(want))
					}
					for i := range got {
						if math.Float32bits(got[i]) != math.Float32bits(float32(want[i])) {
							t.Errorf("value %d = %v, want %v", i, got[i], float32(want[i]))
						}
					}
				case ComponentFloat64:
					got, err := Decode[float64](doc, acc, shape)
					if err != nil {
						t.Fatalf("Decode() error = %v", err)
					}
					if len(got) != len(want) {
						t.Fatalf("Decode() returned %d values, want %d", len(got), len(want))
					}
					for i := range got {
						if math.Float64bits(got[i]) != math.Float64bits(want[i]) {
							t.Errorf("value %d = %v, want %v", i, got[i], want[i])
						}
					}
				default:
					got, err := Decode[int64](doc, acc, shape)
					if err != nil {
						t.Fatalf("Decode() error = %v", err)
					}
					if len(got) != len(want) {
						t.Fatalf("Decode() returned %d values, want %d", len(got), len(want))
					}
					for i := range got {
						if got[i] != int64(want[i]) {
							t.Errorf("value %d = %d, want %d", i, got[i], int64(want[i]))
						}
					}
				}
			})
		}
	}
}

func TestDecodeTightlyPacked(t *testing.T) {
	b := NewBuilder()
	acc := b.AddFloats(ShapeVec3, 1, 2, 3, 4, 5, 6)
	doc := b.Document()

	got, err := DecodeVec3(doc, &doc.Accessors[acc])
	if err != nil {
		t.Fatalf("DecodeVec3() error = %v", err)
	}
	if len(got) != 2 || got[1].X != 4 || got[1].Z != 6 {
		t.Errorf("DecodeVec3() = %v, want [(1 2 3) (4 5 6)]", got)
	}
}

func TestDecodeAccessorStrideOverridesView(t *testing.T) {
	doc, _ := makeStridedDocument(ComponentUint8, ShapeScalar, 4)
	doc.Accessors[0].ByteStride = 2
	doc.Accessors[0].Count = 2

	got, err := Decode[uint8](doc, &doc.Accessors[0], ShapeScalar)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	// With a 2-byte stride the second element is the padding byte after
	// the first.
	if got[0] != 0 || got[1] != 0xff {
		t.Errorf("Decode() = %v, want [0 255]", got)
	}
}

func TestDecodeErrors(t *testing.T) {
	base := func() *Document {
		doc, _ := makeStridedDocument(ComponentFloat32, ShapeVec3, 2)
		return doc
	}

	tests := []struct {
		name    string
		mutate  func(d *Document)
		shape   ElementShape
		wantErr error
	}{
		{
			name:    "shape mismatch",
			mutate:  func(d *Document) {},
			shape:   ShapeVec2,
			wantErr: ErrShapeMismatch,
		},
		{
			name:    "missing buffer view",
			mutate:  func(d *Document) { d.Accessors[0].BufferView = 3 },
			shape:   ShapeVec3,
			wantErr: ErrMissingBufferView,
		},
		{
			name:    "no buffer view",
			mutate:  func(d *Document) { d.Accessors[0].BufferView = -1 },
			shape:   ShapeVec3,
			wantErr: ErrMissingBufferView,
		},
		{
			name:    "missing buffer",
			mutate:  func(d *Document) { d.BufferViews[0].Buffer = 1 },
			shape:   ShapeVec3,
			wantErr: ErrMissingBuffer,
		},
		{
			name:    "unknown component type",
			mutate:  func(d *Document) { d.Accessors[0].ComponentType = ComponentType(42) },
			shape:   ShapeVec3,
			wantErr: ErrUnsupportedAccessorFormat,
		},
		{
			name:    "matrix shape",
			mutate:  func(d *Document) { d.Accessors[0].Shape = ShapeMatrix },
			shape:   ShapeMatrix,
			wantErr: ErrUnsupportedAccessorFormat,
		},
		{
			name:    "sparse",
			mutate:  func(d *Document) { d.Accessors[0].Sparse = true },
			shape:   ShapeVec3,
			wantErr: ErrUnsupportedAccessorFormat,
		},
		{
			name:    "count past buffer view",
			mutate:  func(d *Document) { d.Accessors[0].Count = 10 },
			shape:   ShapeVec3,
			wantErr: ErrAccessorOutOfRange,
		},
		{
			name: "count past buffer",
			mutate: func(d *Document) {
				d.BufferViews[0].ByteLength = 0
				d.Accessors[0].Count = 10
			},
			shape:   ShapeVec3,
			wantErr: ErrAccessorOutOfRange,
		},
		{
			name:    "negative count",
			mutate:  func(d *Document) { d.Accessors[0].Count = -1 },
			shape:   ShapeVec3,
			wantErr: ErrAccessorOutOfRange,
		},
		{
			name:    "negative accessor offset",
			mutate:  func(d *Document) { d.Accessors[0].ByteOffset = -8 },
			shape:   ShapeVec3,
			wantErr: ErrAccessorOutOfRange,
		},
		{
			name: "count overflows span",
			mutate: func(d *Document) {
				d.BufferViews[0].ByteLength = 0
				d.Accessors[0].Count = 1 << 61
			},
			shape:   ShapeVec3,
			wantErr: ErrAccessorOutOfRange,
		},
		{
			name: "count wraps span to small value",
			mutate: func(d *Document) {
				d.BufferViews[0].ByteLength = 0
				d.Accessors[0].Count = 1537228672809129302
			},
			shape:   ShapeVec3,
			wantErr: ErrAccessorOutOfRange,
		},
		{
			name: "offset past buffer",
			mutate: func(d *Document) {
				d.BufferViews[0].ByteLength = 0
				d.Accessors[0].ByteOffset = 1 << 20
			},
			shape:   ShapeVec3,
			wantErr: ErrAccessorOutOfRange,
		},
		{
			name: "offsets overflow start",
			mutate: func(d *Document) {
				d.BufferViews[0].ByteLength = 0
				d.BufferViews[0].ByteOffset = 1 << 62
				d.Accessors[0].ByteOffset = 1 << 62
			},
			shape:   ShapeVec3,
			wantErr: ErrAccessorOutOfRange,
		},
		{
			name: "offset near max int",
			mutate: func(d *Document) {
				d.BufferViews[0].ByteLength = 0
				d.Accessors[0].ByteOffset = math.MaxInt - 4
			},
			shape:   ShapeVec3,
			wantErr: ErrAccessorOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := base()
			tt.mutate(doc)
			_, err := Decode[float32](doc, &doc.Accessors[0], tt.shape)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecodeEmptyAccessor(t *testing.T) {
	doc, _ := makeStridedDocument(ComponentUint16, ShapeScalar, 0)
	got, err := DecodeIndices(doc, &doc.Accessors[0])
	if err != nil {
		t.Fatalf("DecodeIndices() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("DecodeIndices() = %v, want empty", got)
	}
}

func TestReadComponentLittleEndian(t *testing.T) {
	tests := []struct {
		data []byte
		want uint64
	}{
		{[]byte{0x01}, 0x01},
		{[]byte{0x01, 0x02}, 0x0201},
		{[]byte{0x01, 0x02, 0x03, 0x04}, 0x04030201},
		{[]byte{0, 0, 0, 0, 0, 0, 0xf0, 0x3f}, math.Float64bits(1)},
	}
	for _, tt := range tests {
		if got := readComponent(tt.data); got != tt.want {
			t.Errorf("readComponent(%v) = %#x, want %#x", tt.data, got, tt.want)
		}
	}
}

func TestDecodeFloatNormalized(t *testing.T) {
	tests := []struct {
		name string
		ct   ComponentType
		raw  float64
		want float32
	}{
		{"uint8 max", ComponentUint8, 255, 1},
		{"uint8 zero", ComponentUint8, 0, 0},
		{"int8 min clamps", ComponentInt8, -128, -1},
		{"int16 max", ComponentInt16, 32767, 1},
		{"uint16 max", ComponentUint16, 65535, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := encodeComponent(tt.ct, tt.raw)
			doc := &Document{
				Buffers:     []Buffer{{Data: data}},
				BufferViews: []BufferView{{ByteLength: len(data)}},
				Accessors: []Accessor{{
					ComponentType: tt.ct,
					Shape:         ShapeScalar,
					Count:         1,
					Normalized:    true,
				}},
			}
			got, err := DecodeFloat(doc, &doc.Accessors[0], ShapeScalar)
			if err != nil {
				t.Fatalf("DecodeFloat() error = %v", err)
			}
			if got[0] != tt.want {
				t.Errorf("DecodeFloat() = %v, want %v", got[0], tt.want)
			}
		})
	}
}

func TestComponentTypeSize(t *testing.T) {
	want := map[ComponentType]int{
		ComponentInt8:     1,
		ComponentUint8:    1,
		ComponentInt16:    2,
		ComponentUint16:   2,
		ComponentInt32:    4,
		ComponentUint32:   4,
		ComponentFloat32:  4,
		ComponentFloat64:  8,
		ComponentType(99): 0,
	}
	for ct, size := range want {
		if got := ct.Size(); got != size {
			t.Errorf("%s.Size() = %d, want %d", ct, got, size)
		}
	}
}
