package assets

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

const regionMarker = "#region "

// markers in the order they are tested against a line
var regionMarkers = []metadata.ShaderStage{
	metadata.ShaderStageVertex,
	metadata.ShaderStageFragment,
	metadata.ShaderStageGeometry,
	metadata.ShaderStageTessellationControl,
	metadata.ShaderStageTessellationEvaluation,
	metadata.ShaderStageCompute,
}

func markerStage(line string) (metadata.ShaderStage, bool) {
	for _, stage := range regionMarkers {
		if strings.Contains(line, regionMarker+stage.String()) {
			return stage, true
		}
	}
	return 0, false
}

// ParseShaderSource splits region-marked shader text into one source per stage. Lines
// before the first marker belong to no stage and are dropped.
func ParseShaderSource(r io.Reader) (metadata.ShaderSources, error) {
	sources := metadata.ShaderSources{}
	builders := map[metadata.ShaderStage]*strings.Builder{}
	var current *strings.Builder

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if stage, ok := markerStage(line); ok {
			if _, exists := builders[stage]; !exists {
				builders[stage] = &strings.Builder{}
			}
			current = builders[stage]
			continue
		}
		if current != nil {
			current.WriteString(line)
			current.WriteByte('\n')
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	for stage, b := range builders {
		sources[stage] = b.String()
	}
	return sources, nil
}

// ReadShaderSource reads a single file holding every stage behind region markers.
func ReadShaderSource(path string) (metadata.ShaderSources, error) {
	f, err := os.Open(path)
	if err != nil {
		core.LogError("could not open shader file: %s", path)
		return metadata.ShaderSources{}, err
	}
	defer f.Close()

	sources, err := ParseShaderSource(f)
	if err != nil {
		core.LogError("could not read shader file %s: %s", path, err)
		return metadata.ShaderSources{}, err
	}
	return sources, nil
}

// ReadShaderFiles reads the vertex and fragment stages from two files. A file with region
// markers contributes only its own stage region, a file without markers is used whole.
// A file that cannot be read leaves its stage empty, which fails at compile time.
func ReadShaderFiles(vertexPath, fragmentPath string) (metadata.ShaderSources, error) {
	sources := metadata.ShaderSources{}
	var errs []string
	for stage, path := range map[metadata.ShaderStage]string{
		metadata.ShaderStageVertex:   vertexPath,
		metadata.ShaderStageFragment: fragmentPath,
	} {
		src, err := readStageFile(path, stage)
		if err != nil {
			core.LogError("could not open shader file: %s", path)
			errs = append(errs, err.Error())
		}
		sources[stage] = src
	}
	if len(errs) > 0 {
		return sources, fmt.Errorf("reading shader stages: %s", strings.Join(errs, "; "))
	}
	return sources, nil
}

func readStageFile(path string, stage metadata.ShaderStage) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text := string(data)
	if !strings.Contains(text, regionMarker) {
		return text, nil
	}
	regions, err := ParseShaderSource(strings.NewReader(text))
	if err != nil {
		return "", err
	}
	return regions[stage], nil
}
