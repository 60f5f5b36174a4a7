package metadata

/**
 * @brief A single typed element inside a buffer layout. Only Offset changes
 * after construction, it is recomputed by the owning layout every time an
 * element is added.
 */
type BufferElement struct {
	/** @brief Optional name, required for uniform block fields. */
	Name string
	/** @brief The semantic type of the element. */
	DataType ShaderDataType
	/** @brief The size in bytes, derived from DataType. */
	Size uint32
	/** @brief The offset in bytes from the start of a vertex or block. */
	Offset uint32
	/** @brief Whether integer data is normalized when read as floating point. */
	Normalized bool
}

func NewBufferElement(dataType ShaderDataType, normalized bool) BufferElement {
	return BufferElement{
		DataType:   dataType,
		Size:       dataType.Size(),
		Normalized: normalized,
	}
}

func NewUniformElement(name string, dataType ShaderDataType) BufferElement {
	return BufferElement{
		Name:     name,
		DataType: dataType,
		Size:     dataType.Size(),
	}
}

// BufferLayout describes the interleaved attributes of a vertex buffer.
// Element order is the attribute binding order.
type BufferLayout struct {
	elements []BufferElement
	stride   uint32
}

// NewBufferLayout builds a layout from a fixed list and computes offsets once.
func NewBufferLayout(elements ...BufferElement) *BufferLayout {
	l := &BufferLayout{
		elements: append([]BufferElement(nil), elements...),
	}
	l.calcStrideAndOffset()
	return l
}

// AddElement appends e and recomputes every offset and the stride from the start.
func (l *BufferLayout) AddElement(e BufferElement) {
	l.elements = append(l.elements, e)
	l.calcStrideAndOffset()
}

func (l *BufferLayout) Stride() uint32 {
	return l.stride
}

func (l *BufferLayout) Len() int {
	return len(l.elements)
}

// Elements returns a copy of the elements in insertion order.
func (l *BufferLayout) Elements() []BufferElement {
	return append([]BufferElement(nil), l.elements...)
}

func (l *BufferLayout) calcStrideAndOffset() {
	offset := uint32(0)
	for i := range l.elements {
		l.elements[i].Offset = offset
		offset += l.elements[i].Size
	}
	l.stride = offset
}

// UniformBufferLayout describes the named fields of a uniform block. Each field starts on
// a 16 byte vector slot, the stride is the full block size including padding.
type UniformBufferLayout struct {
	elements []BufferElement
	stride   uint32
}

func NewUniformBufferLayout(elements ...BufferElement) *UniformBufferLayout {
	l := &UniformBufferLayout{
		elements: append([]BufferElement(nil), elements...),
	}
	l.calcStrideAndOffset()
	return l
}

// AddElement appends e and recomputes every offset and the block size from the start.
func (l *UniformBufferLayout) AddElement(e BufferElement) {
	l.elements = append(l.elements, e)
	l.calcStrideAndOffset()
}

func (l *UniformBufferLayout) Stride() uint32 {
	return l.stride
}

func (l *UniformBufferLayout) Len() int {
	return len(l.elements)
}

func (l *UniformBufferLayout) Elements() []BufferElement {
	return append([]BufferElement(nil), l.elements...)
}

func (l *UniformBufferLayout) calcStrideAndOffset() {
	offset := uint32(0)
	for i := range l.elements {
		l.elements[i].Offset = offset
		offset += l.elements[i].DataType.UniformSlotSize()
	}
	l.stride = offset
}

/**
 * @brief One vertex attribute pointer derived from a layout element. Matrix
 * elements expand to one attribute per column.
 */
type VertexAttribute struct {
	/** @brief The attribute location. */
	Index uint32
	/** @brief Number of components, 1 to 4. */
	Components int32
	/** @brief The scalar type is integer and must not be converted to float. */
	Integer bool
	Normalized bool
	/** @brief The byte distance between two consecutive vertices. */
	Stride uint32
	/** @brief The byte offset of the attribute inside a vertex. */
	Offset uint32
}

// Attributes expands the layout into attribute pointers with locations starting at first.
func (l *BufferLayout) Attributes(first uint32) []VertexAttribute {
	attributes := make([]VertexAttribute, 0, len(l.elements))
	index := first
	for _, e := range l.elements {
		switch e.DataType {
		case ShaderDataTypeMat3, ShaderDataTypeMat4:
			columns := uint32(3)
			if e.DataType == ShaderDataTypeMat4 {
				columns = 4
			}
			for c := uint32(0); c < columns; c++ {
				attributes = append(attributes, VertexAttribute{
					Index:      index,
					Components: int32(columns),
					Normalized: e.Normalized,
					Stride:     l.stride,
					Offset:     e.Offset + c*columns*4,
				})
				index++
			}
		default:
			attributes = append(attributes, VertexAttribute{
				Index:      index,
				Components: int32(e.DataType.ComponentCount()),
				Integer:    e.DataType.IsInteger(),
				Normalized: e.Normalized,
				Stride:     l.stride,
				Offset:     e.Offset,
			})
			index++
		}
	}
	return attributes
}
