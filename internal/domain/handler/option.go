package handler

import "convroute/internal/domain/format"

// Option is a (handler, format, dense index) triple used for UI binding and
// registry lookup. The index is not semantically meaningful to the core.
type Option struct {
	Handler Handler
	Format  format.Descriptor
	Index   int
}

// PathNode is a (handler, format) pair. In a Path, the first node's handler
// is context only (the source handler); every subsequent node names a
// conversion step into that format by that handler.
type PathNode struct {
	Handler Handler
	Format  format.Descriptor
}

// Path is a non-empty ordered sequence of path nodes.
type Path []PathNode

// Categories returns the primary category of each node's format, falling
// back to the major part of its MIME type when no category is declared.
func (p Path) Categories() []string {
	cats := make([]string, len(p))
	for i, node := range p {
		if c := node.Format.PrimaryCategory(); c != "" {
			cats[i] = c
		} else {
			cats[i] = majorMIMEPart(node.Format.MIME)
		}
	}
	return cats
}

func majorMIMEPart(mime string) string {
	for i, r := range mime {
		if r == '/' {
			return mime[:i]
		}
	}
	return mime
}

// Clone returns a copy of the path safe to append to independently of p.
func (p Path) Clone() Path {
	out := make(Path, len(p))
	copy(out, p)
	return out
}
