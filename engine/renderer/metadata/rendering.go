package metadata

/** @brief How a run of indices is assembled into primitives. */
type PrimitiveTopology int

const (
	/** @brief Every three indices form an independent triangle. */
	PrimitiveTopologyTriangles PrimitiveTopology = iota
	/** @brief The first index is shared by every triangle of the fan. */
	PrimitiveTopologyTriangleFan
)

func (p PrimitiveTopology) String() string {
	switch p {
	case PrimitiveTopologyTriangles:
		return "triangles"
	case PrimitiveTopologyTriangleFan:
		return "triangle_fan"
	}
	return "unknown"
}
