package metadata

/**
 * @brief The semantic type of a vertex attribute or a uniform block field.
 */
type ShaderDataType int

const (
	ShaderDataTypeNone ShaderDataType = iota
	ShaderDataTypeInt
	ShaderDataTypeInt2
	ShaderDataTypeInt3
	ShaderDataTypeInt4
	ShaderDataTypeFloat
	ShaderDataTypeFloat2
	ShaderDataTypeFloat3
	ShaderDataTypeFloat4
	ShaderDataTypeMat3
	ShaderDataTypeMat4
	ShaderDataTypeBool
)

// UniformSlotAlignment is the size of one 4-component vector slot inside a uniform block.
const UniformSlotAlignment uint32 = 16

var shaderDataTypeNames = map[ShaderDataType]string{
	ShaderDataTypeNone:   "none",
	ShaderDataTypeInt:    "int",
	ShaderDataTypeInt2:   "int2",
	ShaderDataTypeInt3:   "int3",
	ShaderDataTypeInt4:   "int4",
	ShaderDataTypeFloat:  "float",
	ShaderDataTypeFloat2: "float2",
	ShaderDataTypeFloat3: "float3",
	ShaderDataTypeFloat4: "float4",
	ShaderDataTypeMat3:   "mat3",
	ShaderDataTypeMat4:   "mat4",
	ShaderDataTypeBool:   "bool",
}

func (t ShaderDataType) String() string {
	if name, ok := shaderDataTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

/**
 * @brief Returns the tightly packed size in bytes of a value of this type.
 */
func (t ShaderDataType) Size() uint32 {
	switch t {
	case ShaderDataTypeInt, ShaderDataTypeFloat:
		return 4
	case ShaderDataTypeInt2, ShaderDataTypeFloat2:
		return 4 * 2
	case ShaderDataTypeInt3, ShaderDataTypeFloat3:
		return 4 * 3
	case ShaderDataTypeInt4, ShaderDataTypeFloat4:
		return 4 * 4
	case ShaderDataTypeMat3:
		return 4 * 3 * 3
	case ShaderDataTypeMat4:
		return 4 * 4 * 4
	case ShaderDataTypeBool:
		return 1
	}
	return 0
}

/**
 * @brief Returns the number of scalar components, matrices count every element.
 */
func (t ShaderDataType) ComponentCount() uint32 {
	switch t {
	case ShaderDataTypeInt, ShaderDataTypeFloat, ShaderDataTypeBool:
		return 1
	case ShaderDataTypeInt2, ShaderDataTypeFloat2:
		return 2
	case ShaderDataTypeInt3, ShaderDataTypeFloat3:
		return 3
	case ShaderDataTypeInt4, ShaderDataTypeFloat4:
		return 4
	case ShaderDataTypeMat3:
		return 3 * 3
	case ShaderDataTypeMat4:
		return 4 * 4
	}
	return 0
}

// IsInteger reports whether the type is read by the shader as integer data.
func (t ShaderDataType) IsInteger() bool {
	switch t {
	case ShaderDataTypeInt, ShaderDataTypeInt2, ShaderDataTypeInt3, ShaderDataTypeInt4, ShaderDataTypeBool:
		return true
	}
	return false
}

/**
 * @brief Returns the size a field of this type occupies inside a uniform block.
 * Every field is rounded up to whole 16 byte vector slots, so a Float3 takes 16
 * bytes and a Mat3 takes three slots (48 bytes).
 */
func (t ShaderDataType) UniformSlotSize() uint32 {
	return MemSizeAlign(t.Size(), UniformSlotAlignment)
}

// MemSizeAlign returns the size aligned according to align byte increments
// e.g., if align = 16 and size = 12, it returns 16
func MemSizeAlign(size, align uint32) uint32 {
	if size%align == 0 {
		return size
	}
	nb := size / align
	return (nb + 1) * align
}
