package glyph

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"

	"github.com/adnsv/iconfont/svgpath"
	"github.com/sirupsen/logrus"
)

// ErrCompositorClosed is returned by Write once End has been called.
var ErrCompositorClosed = errors.New("compositor is closed")

// Input is one icon queued for composition.
type Input struct {
	Name    string
	Unicode []rune
	Source  io.Reader
}

type CompositorOptions struct {
	FontName   string
	FontHeight int // units per em
	Descent    int
	FontWeight int

	// Normalize scales every icon so that its viewBox height matches
	// FontHeight.
	Normalize bool

	// Precision is the number of decimals kept in glyph coordinates.
	Precision int
}

// DefaultCompositorOptions returns the settings used for icon fonts.
func DefaultCompositorOptions(fontName string) CompositorOptions {
	return CompositorOptions{
		FontName:   fontName,
		FontHeight: 1024,
		FontWeight: 400,
		Normalize:  true,
		Precision:  3,
	}
}

type composedGlyph struct {
	name    string
	unicode []rune
	advance int
	d       string
}

// Compositor turns a stream of SVG icons into a single SVG font document.
// Inputs are processed strictly in the order they are written; the document
// is written to the sink after End, and Wait reports when that has happened.
type Compositor struct {
	opts CompositorOptions
	out  io.Writer
	log  logrus.FieldLogger

	queue chan Input
	done  chan struct{}

	sendMu sync.Mutex // guards closed and sends on queue
	closed bool

	errMu sync.Mutex
	err   error
}

func NewCompositor(out io.Writer, opts CompositorOptions, log logrus.FieldLogger) *Compositor {
	if opts.FontHeight <= 0 {
		opts.FontHeight = 1024
	}
	if opts.FontWeight <= 0 {
		opts.FontWeight = 400
	}
	c := &Compositor{
		opts:  opts,
		out:   out,
		log:   log,
		queue: make(chan Input, 16),
		done:  make(chan struct{}),
	}
	go c.run()
	return c
}

// Write queues an icon. It blocks while the queue is full.
func (c *Compositor) Write(ctx context.Context, in Input) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return ErrCompositorClosed
	}
	select {
	case c.queue <- in:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// End signals that no more icons follow. It is safe to call more than once.
func (c *Compositor) End() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.queue)
	}
}

// Wait blocks until the font document has been written or composition has
// failed.
func (c *Compositor) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		c.errMu.Lock()
		defer c.errMu.Unlock()
		return c.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Compositor) fail(err error) {
	c.errMu.Lock()
	if c.err == nil {
		c.err = err
	}
	c.errMu.Unlock()
}

func (c *Compositor) failed() bool {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.err != nil
}

func (c *Compositor) run() {
	defer close(c.done)

	var glyphs []composedGlyph
	for in := range c.queue {
		// keep draining so that writers never block on a failed compositor
		if c.failed() {
			continue
		}
		g, err := c.compose(in)
		if err != nil {
			c.fail(fmt.Errorf("glyph %q: %w", in.Name, err))
			continue
		}
		glyphs = append(glyphs, g)
	}
	if c.failed() {
		return
	}

	c.log.Info("scan completed and ready for vector font generation")
	if _, err := c.out.Write(c.document(glyphs)); err != nil {
		c.fail(err)
	}
}

func (c *Compositor) compose(in Input) (composedGlyph, error) {
	icon, err := ReadIcon(in.Source)
	if err != nil {
		return composedGlyph{}, err
	}
	vx, vy, vw, vh := icon.ViewBox[0], icon.ViewBox[1], icon.ViewBox[2], icon.ViewBox[3]

	s := 1.0
	if c.opts.Normalize {
		s = float64(c.opts.FontHeight) / vh
	}
	ascent := float64(c.opts.FontHeight - c.opts.Descent)
	// flip into font space, where y grows upwards from the baseline
	m := svgpath.Matrix{s, 0, 0, -s, -vx * s, ascent + vy*s}

	g := composedGlyph{
		name:    in.Name,
		unicode: in.Unicode,
		advance: int(math.Round(vw * s)),
		d:       icon.Path.Transform(m).Format(c.opts.Precision),
	}
	c.log.WithField("glyph", in.Name).Debugf("composed %d segments, advance %d", len(icon.Path), g.advance)
	return g, nil
}

func (c *Compositor) document(glyphs []composedGlyph) []byte {
	advance := c.opts.FontHeight
	for _, g := range glyphs {
		if g.advance > advance {
			advance = g.advance
		}
	}

	buf := bytes.Buffer{}
	buf.WriteString("<?xml version=\"1.0\" standalone=\"no\"?>\n")
	buf.WriteString("<!DOCTYPE svg PUBLIC \"-//W3C//DTD SVG 1.1//EN\" \"http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd\" >\n")
	buf.WriteString("<svg xmlns=\"http://www.w3.org/2000/svg\">\n")
	buf.WriteString("<defs>\n")
	fmt.Fprintf(&buf, "  <font id=\"%s\" horiz-adv-x=\"%d\">\n", escape(c.opts.FontName), advance)
	fmt.Fprintf(&buf, "    <font-face font-family=\"%s\"\n", escape(c.opts.FontName))
	fmt.Fprintf(&buf, "      units-per-em=\"%d\" ascent=\"%d\"\n", c.opts.FontHeight, c.opts.FontHeight-c.opts.Descent)
	fmt.Fprintf(&buf, "      descent=\"%d\" font-weight=\"%d\" />\n", -c.opts.Descent, c.opts.FontWeight)
	buf.WriteString("    <missing-glyph horiz-adv-x=\"0\" />\n")
	for _, g := range glyphs {
		fmt.Fprintf(&buf, "    <glyph glyph-name=\"%s\"\n", escape(g.name))
		fmt.Fprintf(&buf, "      unicode=\"%s\"\n", unicodeRef(g.unicode))
		fmt.Fprintf(&buf, "      horiz-adv-x=\"%d\" d=\"%s\" />\n", g.advance, g.d)
	}
	buf.WriteString("  </font>\n")
	buf.WriteString("</defs>\n")
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\"", "&quot;",
)

func escape(s string) string {
	return attrEscaper.Replace(s)
}

func unicodeRef(rs []rune) string {
	sb := strings.Builder{}
	for _, r := range rs {
		fmt.Fprintf(&sb, "&#x%x;", r)
	}
	return sb.String()
}
