package org

// NodeType identifies the kind of a parsed org-mode node.
type NodeType string

const (
	NodeDocument         NodeType = "document"
	NodeHeading          NodeType = "heading"
	NodeParagraph        NodeType = "paragraph"
	NodeText             NodeType = "text"
	NodeLink             NodeType = "link"
	NodeSrcBlock         NodeType = "src_block"
	NodeTable            NodeType = "table"
	NodeList             NodeType = "list"
	NodeListItem         NodeType = "list_item"
	NodeCommentDirective NodeType = "gdocs_comment_directive"
	NodeRenderedImage    NodeType = "rendered_image"
)

// List kinds.
const (
	ListUnordered = "unordered"
	ListOrdered   = "ordered"
)

// Span is the (start_line, end_line) pair used to re-identify a node across
// deep copies. Lines are 0-based; EndLine is the index of the last consumed line.
type Span struct {
	Start int
	End   int
}

// Node is a single element of the document tree. All variants share this
// struct; Type selects which fields are meaningful.
type Node struct {
	Type       NodeType
	Children   []*Node
	Properties map[string]string

	// Source line span, -1 when the node was built in memory.
	StartLine int
	EndLine   int

	// Heading
	Level     int
	Title     string
	TodoState string
	Tags      []string
	Priority  string

	// Text, SrcBlock, ListItem
	Content string

	// Link
	URL         string
	Description string

	// SrcBlock
	Language   string
	HeaderArgs string

	// Table
	Rows      [][]string
	HasHeader bool

	// List
	ListType string

	// ListItem
	Bullet   string
	Checkbox string

	// RenderedImage
	SourceLanguage string
	LocalPath      string
	RemoteURL      string
}

// NewNode returns a node of the given type with no source span.
func NewNode(t NodeType) *Node {
	return &Node{Type: t, StartLine: -1, EndLine: -1}
}

// Span returns the node's line-span key.
func (n *Node) Span() Span {
	return Span{Start: n.StartLine, End: n.EndLine}
}

// HasSpan reports whether the node carries a source line span.
func (n *Node) HasSpan() bool {
	return n.StartLine >= 0 && n.EndLine >= 0
}

// SetProperty stores a property, allocating the map on first use.
func (n *Node) SetProperty(key, value string) {
	if n.Properties == nil {
		n.Properties = make(map[string]string)
	}
	n.Properties[key] = value
}

// Property returns a property value, or "" when absent.
func (n *Node) Property(key string) string {
	return n.Properties[key]
}

// Clone returns a deep copy of the node and its subtree.
func (n *Node) Clone() *Node {
	c := *n
	if n.Properties != nil {
		c.Properties = make(map[string]string, len(n.Properties))
		for k, v := range n.Properties {
			c.Properties[k] = v
		}
	}
	if n.Tags != nil {
		c.Tags = append([]string(nil), n.Tags...)
	}
	if n.Rows != nil {
		c.Rows = make([][]string, len(n.Rows))
		for i, row := range n.Rows {
			c.Rows[i] = append([]string(nil), row...)
		}
	}
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return &c
}

// Walk calls fn for the node and every descendant, depth first. Returning
// false from fn stops the walk.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, child := range n.Children {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}

// Well-known document metadata keys. These round-trip through #+KEY: lines
// and are the only state carried between invocations.
const (
	MetaGDocID      = "GDOC_ID"
	MetaLastSync    = "LAST_SYNC"
	MetaLastPushRev = "LAST_PUSH_REV"
	MetaLastPullRev = "LAST_PULL_REV"
	MetaTitle       = "TITLE"
)

// Document is a complete parsed org file: metadata lines, top-level nodes,
// and the originating path (empty for in-memory documents).
type Document struct {
	metaKeys   []string
	metaValues map[string]string

	Content []*Node
	Path    string
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{metaValues: make(map[string]string)}
}

// Metadata returns the value for a metadata key and whether it was present.
func (d *Document) Metadata(key string) (string, bool) {
	v, ok := d.metaValues[key]
	return v, ok
}

// SetMetadata stores a metadata value, preserving first-insertion order for
// serialization.
func (d *Document) SetMetadata(key, value string) {
	if d.metaValues == nil {
		d.metaValues = make(map[string]string)
	}
	if _, ok := d.metaValues[key]; !ok {
		d.metaKeys = append(d.metaKeys, key)
	}
	d.metaValues[key] = value
}

// MetadataKeys returns the metadata keys in insertion order.
func (d *Document) MetadataKeys() []string {
	return append([]string(nil), d.metaKeys...)
}

// GDocID returns the linked Google Doc ID, or "" when the document has not
// been initialized.
func (d *Document) GDocID() string {
	return d.metaValues[MetaGDocID]
}

// SetGDocID links the document to a Google Doc.
func (d *Document) SetGDocID(id string) {
	d.SetMetadata(MetaGDocID, id)
}

// LastSync returns the last sync timestamp (ISO-8601), or "".
func (d *Document) LastSync() string {
	return d.metaValues[MetaLastSync]
}

// SetLastSync records the last sync timestamp.
func (d *Document) SetLastSync(ts string) {
	d.SetMetadata(MetaLastSync, ts)
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	c := &Document{
		metaKeys:   append([]string(nil), d.metaKeys...),
		metaValues: make(map[string]string, len(d.metaValues)),
		Path:       d.Path,
	}
	for k, v := range d.metaValues {
		c.metaValues[k] = v
	}
	c.Content = make([]*Node, len(d.Content))
	for i, n := range d.Content {
		c.Content[i] = n.Clone()
	}
	return c
}

// Walk calls fn for every node in the document, depth first.
func (d *Document) Walk(fn func(*Node) bool) {
	for _, n := range d.Content {
		if !n.Walk(fn) {
			return
		}
	}
}
