package services

import (
	"encoding/json"
	"strings"
)

const doneSentinel = "[DONE]"

// streamChunk mirrors one incremental completion event from the provider.
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// StreamParser turns an SSE-framed completion body into plain text deltas.
// It is fed raw transport chunks in arrival order; chunk boundaries need not
// align with line boundaries, so a partial trailing line is held back until
// the rest of it arrives (or Flush is called at end of stream).
type StreamParser struct {
	pending strings.Builder // bytes after the last seen newline
	full    strings.Builder // all deltas emitted so far
	done    bool
}

func NewStreamParser() *StreamParser {
	return &StreamParser{}
}

// Feed consumes the next transport chunk, invoking emit once per extracted
// text delta, in order. After the [DONE] sentinel has been seen, remaining
// input is ignored.
func (p *StreamParser) Feed(chunk []byte, emit func(delta string)) {
	if p.done {
		return
	}

	data := p.pending.String() + string(chunk)
	p.pending.Reset()

	for {
		idx := strings.IndexByte(data, '\n')
		if idx < 0 {
			p.pending.WriteString(data)
			return
		}
		p.parseLine(data[:idx], emit)
		if p.done {
			return
		}
		data = data[idx+1:]
	}
}

// Flush processes any held-back trailing line. The transport may end without
// a final newline; without this a delta completed only at end-of-stream
// would be lost.
func (p *StreamParser) Flush(emit func(delta string)) {
	if p.done {
		return
	}
	line := p.pending.String()
	p.pending.Reset()
	p.parseLine(line, emit)
	p.done = true
}

// Done reports whether the [DONE] sentinel has been seen or Flush was called.
func (p *StreamParser) Done() bool {
	return p.done
}

// FullText returns the concatenation of every delta emitted so far.
func (p *StreamParser) FullText() string {
	return p.full.String()
}

func (p *StreamParser) parseLine(line string, emit func(delta string)) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	payload, ok := strings.CutPrefix(line, "data: ")
	if !ok {
		return
	}
	if payload == doneSentinel {
		p.done = true
		return
	}

	var chunk streamChunk
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		// Malformed or partial line; skip it rather than abort the stream.
		return
	}

	for _, choice := range chunk.Choices {
		if choice.Delta.Content != "" {
			p.full.WriteString(choice.Delta.Content)
			if emit != nil {
				emit(choice.Delta.Content)
			}
		}
	}
}
