package core

// FrameStats counts the backend work issued between two Reset calls, typically one frame.
type FrameStats struct {
	DrawCalls       uint32
	IndicesDrawn    uint64
	UniformUploads  uint32
	BufferUploads   uint32
	TextureEdits    uint32
	GlyphsSubmitted uint32
	Frames          uint64
}

// Reset zeroes the per-frame counters and advances the frame count.
func (fs *FrameStats) Reset() {
	frames := fs.Frames + 1
	*fs = FrameStats{Frames: frames}
}

func (fs *FrameStats) RecordDraw(indexCount uint32) {
	fs.DrawCalls++
	fs.IndicesDrawn += uint64(indexCount)
}
