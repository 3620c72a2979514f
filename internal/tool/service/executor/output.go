package executor

import (
	"bytes"

	"github.com/Cyclone1070/wisemcp/internal/tool/helper/content"
)

// binaryPlaceholder replaces the output of a stream that looks binary.
const binaryPlaceholder = "[Binary Content]"

// collector is the io.Writer attached to a command's stdout or stderr.
// It keeps at most maxBytes and stops recording once the leading sample looks binary.
// Writes never fail, so a noisy command is not killed by a full buffer.
type collector struct {
	buf        bytes.Buffer
	maxBytes   int
	sampleSize int
	sampled    int
	binary     bool
	truncated  bool
}

func newCollector(maxBytes, sampleSize int) *collector {
	return &collector{maxBytes: maxBytes, sampleSize: sampleSize}
}

func (c *collector) Write(p []byte) (int, error) {
	n := len(p)
	if c.binary {
		return n, nil
	}

	if c.sampled < c.sampleSize {
		sample := p[:min(len(p), c.sampleSize-c.sampled)]
		c.sampled += len(sample)
		if content.IsBinaryContent(sample) {
			c.binary, c.truncated = true, true
			c.buf.Reset()
			return n, nil
		}
	}

	room := c.maxBytes - c.buf.Len()
	if len(p) > room {
		p = p[:max(room, 0)]
		c.truncated = true
	}
	c.buf.Write(p)
	return n, nil
}

func (c *collector) String() string {
	if c.binary {
		return binaryPlaceholder
	}
	return c.buf.String()
}

// Truncated reports whether any output was dropped.
func (c *collector) Truncated() bool { return c.truncated }
