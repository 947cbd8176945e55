// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package extract

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Boilerplate thresholds. A block is kept when it has at least
// minBlockWords words and at most maxLinkDensity of its words are link text.
const (
	minBlockWords  = 8
	maxLinkDensity = 0.33
)

var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Iframe:   true,
	atom.Svg:      true,
	atom.Nav:      true,
	atom.Header:   true,
	atom.Footer:   true,
	atom.Aside:    true,
	atom.Form:     true,
	atom.Button:   true,
	atom.Select:   true,
	atom.Head:     true,
}

var blocks = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Section: true, atom.Article: true, atom.Main: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Li: true, atom.Ul: true, atom.Ol: true, atom.Dd: true, atom.Dt: true,
	atom.Td: true, atom.Th: true, atom.Tr: true, atom.Table: true,
	atom.Blockquote: true, atom.Pre: true, atom.Figcaption: true, atom.Br: true,
	atom.Body: true,
}

type block struct {
	text      strings.Builder
	words     int
	linkWords int
}

// blockCollector walks the DOM and cuts its text into blocks at block-level elements.
type blockCollector struct {
	blocks []string
	cur    block
}

// MainText returns the article text of an HTML document with navigation,
// scripts and short or link-heavy blocks removed. Kept blocks are separated by newlines.
func MainText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}
	c := &blockCollector{}
	c.walk(doc, false)
	c.flush()
	return strings.Join(c.blocks, "\n"), nil
}

func (c *blockCollector) walk(n *html.Node, inLink bool) {
	switch n.Type {
	case html.TextNode:
		c.addText(n.Data, inLink)
		return
	case html.ElementNode:
		if skipped[n.DataAtom] {
			return
		}
		if n.DataAtom == atom.A {
			inLink = true
		}
		if blocks[n.DataAtom] {
			c.flush()
			defer c.flush()
		}
	case html.CommentNode, html.DoctypeNode:
		return
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.walk(child, inLink)
	}
}

func (c *blockCollector) addText(text string, inLink bool) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return
	}
	if c.cur.text.Len() > 0 {
		c.cur.text.WriteByte(' ')
	}
	c.cur.text.WriteString(strings.Join(words, " "))
	c.cur.words += len(words)
	if inLink {
		c.cur.linkWords += len(words)
	}
}

func (c *blockCollector) flush() {
	b := &c.cur
	if b.words >= minBlockWords && float64(b.linkWords) <= maxLinkDensity*float64(b.words) {
		c.blocks = append(c.blocks, b.text.String())
	}
	c.cur = block{}
}
