package metadata

import (
	"fmt"
	"sort"
)

/**
 * @brief A programmable stage of a shader program.
 */
type ShaderStage int

const (
	ShaderStageVertex ShaderStage = iota
	ShaderStageFragment
	ShaderStageGeometry
	ShaderStageTessellationControl
	ShaderStageTessellationEvaluation
	ShaderStageCompute
)

var shaderStageNames = map[ShaderStage]string{
	ShaderStageVertex:                 "Vertex",
	ShaderStageFragment:               "Fragment",
	ShaderStageGeometry:               "Geometry",
	ShaderStageTessellationControl:    "TessellationControl",
	ShaderStageTessellationEvaluation: "TessellationEvaluation",
	ShaderStageCompute:                "Compute",
}

func (s ShaderStage) String() string {
	if name, ok := shaderStageNames[s]; ok {
		return name
	}
	return "Unknown"
}

// ShaderStageFromString maps a region marker name such as "Vertex" to its stage.
func ShaderStageFromString(s string) (ShaderStage, error) {
	for stage, name := range shaderStageNames {
		if name == s {
			return stage, nil
		}
	}
	return 0, fmt.Errorf("unknown shader stage '%s'", s)
}

/**
 * @brief The source text of every stage of one shader program.
 */
type ShaderSources map[ShaderStage]string

// Stages returns the stages that have a source, in pipeline order.
func (s ShaderSources) Stages() []ShaderStage {
	stages := make([]ShaderStage, 0, len(s))
	for stage := range s {
		stages = append(stages, stage)
	}
	sort.Slice(stages, func(i, j int) bool { return stages[i] < stages[j] })
	return stages
}
