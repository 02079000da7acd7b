package document

// Backend-agnostic document description. The rendering service turns this
// into .docx bytes; nothing here knows about fonts or page geometry beyond
// the highlight fills the layout calls for.

// SectionKind selects how a section's content is laid out.
type SectionKind string

const (
	SectionParagraph SectionKind = "paragraph"
	SectionBullets   SectionKind = "bullets"
	SectionNumbered  SectionKind = "numbered"
	SectionTable     SectionKind = "table"
)

// Section is one heading-plus-content block of the document, in render
// order.
type Section struct {
	Kind    SectionKind `json:"kind"`
	Heading string      `json:"heading"`
	Text    string      `json:"text,omitempty"`
	Italic  bool        `json:"italic,omitempty"`
	// Highlight is a hex shading fill for the content block, empty for none.
	Highlight string   `json:"highlight,omitempty"`
	Items     []string `json:"items,omitempty"`
	Table     *Table   `json:"table,omitempty"`
}

// Table is a fixed-header table with a dynamically computed row count.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Meta is the identity block rendered under the title.
type Meta struct {
	Employee string `json:"employee"`
	Division string `json:"division"`
	Date     string `json:"date"`
}

// Model is the assembled document: title, optional draft banner, identity
// metadata, and ordered sections. Immutable once produced.
type Model struct {
	Title    string    `json:"title"`
	Banner   string    `json:"banner,omitempty"`
	Meta     Meta      `json:"meta"`
	Sections []Section `json:"sections"`
}
