package headless

import "fmt"

// Op names a backend entry point recorded in the command log.
type Op string

const (
	OpClear                  Op = "Clear"
	OpSetDepthTest           Op = "SetDepthTest"
	OpSetBlending            Op = "SetBlending"
	OpDrawIndexed            Op = "DrawIndexed"
	OpTextureCreate          Op = "TextureCreate"
	OpTextureWriteData       Op = "TextureWriteData"
	OpTextureBind            Op = "TextureBind"
	OpTextureDestroy         Op = "TextureDestroy"
	OpShaderCreate           Op = "ShaderCreate"
	OpShaderUse              Op = "ShaderUse"
	OpShaderDestroy          Op = "ShaderDestroy"
	OpSetUniform             Op = "SetUniform"
	OpShaderBindUniformBlock Op = "ShaderBindUniformBlock"
	OpVertexBufferCreate     Op = "VertexBufferCreate"
	OpVertexBufferWrite      Op = "VertexBufferWrite"
	OpVertexBufferDestroy    Op = "VertexBufferDestroy"
	OpIndexBufferCreate      Op = "IndexBufferCreate"
	OpIndexBufferBind        Op = "IndexBufferBind"
	OpIndexBufferDestroy     Op = "IndexBufferDestroy"
	OpVertexArrayCreate      Op = "VertexArrayCreate"
	OpVertexArrayAddBuffer   Op = "VertexArrayAddVertexBuffer"
	OpVertexArraySetIndex    Op = "VertexArraySetIndexBuffer"
	OpVertexArrayBind        Op = "VertexArrayBind"
	OpVertexArrayDestroy     Op = "VertexArrayDestroy"
	OpUniformBufferCreate    Op = "UniformBufferCreate"
	OpUniformBufferWrite     Op = "UniformBufferWrite"
	OpUniformBufferDestroy   Op = "UniformBufferDestroy"
)

// Command is one recorded backend call. Only the fields meaningful for Op are set.
type Command struct {
	Op Op
	// Handle is the object the call operated on.
	Handle uint32
	// Name is a uniform or block name.
	Name string
	// Value is a uniform value, a bool for state toggles or the topology of a draw.
	Value interface{}
	// Count is an index count, a texture unit, a binding point or a byte offset.
	Count uint32
}

func (c Command) String() string {
	switch c.Op {
	case OpSetUniform:
		return fmt.Sprintf("%s(%d, %s=%v)", c.Op, c.Handle, c.Name, c.Value)
	case OpShaderBindUniformBlock:
		return fmt.Sprintf("%s(%d, %s -> %d)", c.Op, c.Handle, c.Name, c.Count)
	case OpDrawIndexed:
		return fmt.Sprintf("%s(%v, %d)", c.Op, c.Value, c.Count)
	case OpSetDepthTest, OpSetBlending:
		return fmt.Sprintf("%s(%v)", c.Op, c.Value)
	}
	return fmt.Sprintf("%s(%d)", c.Op, c.Handle)
}

// Filter returns the commands whose Op is one of ops, in log order.
func Filter(commands []Command, ops ...Op) []Command {
	wanted := make(map[Op]bool, len(ops))
	for _, op := range ops {
		wanted[op] = true
	}
	var out []Command
	for _, c := range commands {
		if wanted[c.Op] {
			out = append(out, c)
		}
	}
	return out
}

// Ops returns only the Op of each command, handy for order assertions.
func Ops(commands []Command) []Op {
	out := make([]Op, len(commands))
	for i, c := range commands {
		out[i] = c.Op
	}
	return out
}
