// Package sse writes OpenAI-compatible Server-Sent Events: a "data: <json>"
// line per event, a blank line separating events, and a terminal
// "data: [DONE]" event. Grounded on the teacher's server/web/proxy/vllm.go
// handler, which called gin.Context.SSEvent directly inline in its stream
// loop; factored out here so every provider's streaming path emits
// identically-framed events regardless of how its upstream frames its own
// stream.
package sse

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
)

// Framer writes SSE events onto a gin response via gin's chunked c.Stream
// callback convention.
type Framer struct {
	ctx *gin.Context
}

// NewFramer builds a Framer writing to ctx. Call Done exactly once after the
// last Event to emit the terminal [DONE] sentinel.
func NewFramer(ctx *gin.Context) *Framer {
	return &Framer{ctx: ctx}
}

// Event marshals payload and writes it as a single SSE data event.
func (f *Framer) Event(payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	f.ctx.SSEvent("", " "+string(b))
	return nil
}

// Done emits the terminal [DONE] sentinel OpenAI-compatible clients expect
// to see at the end of every streamed response.
func (f *Framer) Done() {
	f.ctx.SSEvent("", " [DONE]")
}
