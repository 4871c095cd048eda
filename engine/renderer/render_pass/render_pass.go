package render_pass

import (
	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// Commands is the raw command stream of an open pass.
type Commands interface {
	SetPipeline(pipeline *wgpu.RenderPipeline)
	SetBindGroup(index uint32, group *wgpu.BindGroup)
	SetVertexBuffer(slot uint32, buffer *wgpu.Buffer)
	SetIndexBuffer(buffer *wgpu.Buffer, format wgpu.IndexFormat)
	SetPushConstants(stages wgpu.ShaderStage, offset uint32, data []byte)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32)
	End()
}

// Encoder opens passes. FromCommandEncoder adapts a *wgpu.CommandEncoder.
type Encoder interface {
	BeginRenderPass(desc *wgpu.RenderPassDescriptor) Commands
}

// commandEncoder adapts *wgpu.CommandEncoder to Encoder.
type commandEncoder struct {
	encoder *wgpu.CommandEncoder
}

// FromCommandEncoder wraps a wgpu command encoder so passes can be recorded on it.
//
// Parameters:
//   - encoder: the frame's command encoder
//
// Returns:
//   - Encoder: the adapter
func FromCommandEncoder(encoder *wgpu.CommandEncoder) Encoder {
	return &commandEncoder{encoder: encoder}
}

func (e *commandEncoder) BeginRenderPass(desc *wgpu.RenderPassDescriptor) Commands {
	return &passEncoder{pass: e.encoder.BeginRenderPass(desc)}
}

// passEncoder adapts *wgpu.RenderPassEncoder to Commands.
type passEncoder struct {
	pass *wgpu.RenderPassEncoder
}

func (p *passEncoder) SetPipeline(pipeline *wgpu.RenderPipeline) {
	p.pass.SetPipeline(pipeline)
}

func (p *passEncoder) SetBindGroup(index uint32, group *wgpu.BindGroup) {
	p.pass.SetBindGroup(index, group, nil)
}

func (p *passEncoder) SetVertexBuffer(slot uint32, buffer *wgpu.Buffer) {
	p.pass.SetVertexBuffer(slot, buffer, 0, wgpu.WholeSize)
}

func (p *passEncoder) SetIndexBuffer(buffer *wgpu.Buffer, format wgpu.IndexFormat) {
	p.pass.SetIndexBuffer(buffer, format, 0, wgpu.WholeSize)
}

func (p *passEncoder) SetPushConstants(stages wgpu.ShaderStage, offset uint32, data []byte) {
	p.pass.SetPushConstants(stages, offset, data)
}

func (p *passEncoder) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.pass.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
}

func (p *passEncoder) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.pass.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
}

func (p *passEncoder) End() {
	p.pass.End()
	p.pass.Release()
}

// renderPass is the implementation of the RenderPass interface.
type renderPass struct {
	label     string
	logger    common.Logger
	commands  Commands
	ended     bool
	drawCalls int
	triangles int
}

// RenderPass is an open pass. Every recording call after End is dropped and logged.
type RenderPass interface {
	Commands

	// Label returns the pass label.
	Label() string

	// Ended reports whether End has been called.
	Ended() bool

	// DrawCalls returns the number of Draw and DrawIndexed calls recorded.
	DrawCalls() int

	// Triangles returns the triangle count recorded, assuming triangle-list topology.
	Triangles() int
}

var _ RenderPass = &renderPass{}

func (p *renderPass) Label() string  { return p.label }
func (p *renderPass) Ended() bool    { return p.ended }
func (p *renderPass) DrawCalls() int { return p.drawCalls }
func (p *renderPass) Triangles() int { return p.triangles }

func (p *renderPass) closed(call string) bool {
	if p.ended {
		p.logger.Warnf("%s: %s called after End, ignored", p.label, call)
	}
	return p.ended
}

func (p *renderPass) SetPipeline(pipeline *wgpu.RenderPipeline) {
	if p.closed("SetPipeline") {
		return
	}
	p.commands.SetPipeline(pipeline)
}

func (p *renderPass) SetBindGroup(index uint32, group *wgpu.BindGroup) {
	if p.closed("SetBindGroup") {
		return
	}
	p.commands.SetBindGroup(index, group)
}

func (p *renderPass) SetVertexBuffer(slot uint32, buffer *wgpu.Buffer) {
	if p.closed("SetVertexBuffer") {
		return
	}
	p.commands.SetVertexBuffer(slot, buffer)
}

func (p *renderPass) SetIndexBuffer(buffer *wgpu.Buffer, format wgpu.IndexFormat) {
	if p.closed("SetIndexBuffer") {
		return
	}
	p.commands.SetIndexBuffer(buffer, format)
}

func (p *renderPass) SetPushConstants(stages wgpu.ShaderStage, offset uint32, data []byte) {
	if p.closed("SetPushConstants") {
		return
	}
	p.commands.SetPushConstants(stages, offset, data)
}

func (p *renderPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	if p.closed("Draw") {
		return
	}
	p.commands.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
	p.drawCalls++
	p.triangles += int(vertexCount/3) * int(instanceCount)
}

func (p *renderPass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	if p.closed("DrawIndexed") {
		return
	}
	p.commands.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
	p.drawCalls++
	p.triangles += int(indexCount/3) * int(instanceCount)
}

// End closes the pass. A second End is ignored.
func (p *renderPass) End() {
	if p.closed("End") {
		return
	}
	p.commands.End()
	p.ended = true
}
