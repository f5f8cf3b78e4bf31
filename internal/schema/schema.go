package schema

import (
	"encoding/json"
	"fmt"
	"sort"
)

// DType enumerates the physical data types a property column can hold.
type DType string

const (
	Int32      DType = "INT32"
	Int64      DType = "INT64"
	Float      DType = "FLOAT"
	Double     DType = "DOUBLE"
	Bool       DType = "BOOL"
	String     DType = "STRING"
	LongString DType = "LONGSTRING"
	Date       DType = "DATE"
	DateTime   DType = "DATETIME"
	Text       DType = "TEXT"
)

// forGIE maps the wide/variable string-like dtypes down to plain
// STRING, matching get_json(gie=true) in the original graph store: the
// downstream analytical-engine frontend only understands a single string
// type. forGIE=false leaves dtypes untouched.
func (d DType) forGIE(forGIE bool) DType {
	if !forGIE {
		return d
	}
	switch d {
	case LongString, Date, DateTime, Text:
		return String
	default:
		return d
	}
}

// FixedWidth returns the fixed byte width of a property cell for this
// dtype. Variable-length dtypes (STRING and friends) report false; they
// are still fixed-width in this store, using the maximum number of bytes
// the column will hold as declared in its Column.VLen, not computed here.
func (d DType) FixedWidth() (int, bool) {
	switch d {
	case Int32, Float:
		return 4, true
	case Int64, Double:
		return 8, true
	case Bool:
		return 1, true
	default:
		return 0, false
	}
}

// Column describes one property column of a label.
type Column struct {
	Name      string
	DType     DType
	VLen      int  // fixed width in bytes of one cell
	Updatable bool // non-updatable columns live in fixCols, never rewritten after insert
}

// LabelSchema describes one vertex or edge label's property columns, in
// propertyDefList order.
type LabelSchema struct {
	ID      int
	Name    string
	Columns []Column
}

// labelPropKey addresses a (label id, property index) pair.
type labelPropKey struct {
	Label int
	Prop  int
}

// Schema is the graph-wide schema description: recognized property names,
// label ids, per-(label,property) dtypes, per-label byte layout, and edge
// endpoint relations. It is populated through AddLabel (cmd/writer does so
// from an RGMapping document) and is read-only thereafter.
type Schema struct {
	// PropertyIndex maps a recognized property name to its property index.
	PropertyIndex map[string]int
	// LabelID maps a label name to its label id.
	LabelID map[string]int
	// ElabelOffset is the first id assigned to an edge label; vertex-label
	// ids occupy [0, ElabelOffset).
	ElabelOffset int
	// EdgeRelation maps an edge label id to its (src label id, dst label id).
	EdgeRelation map[int][2]int

	// Labels holds the column layout for every vertex and edge label,
	// keyed by label id (vertex ids and elabel-offset-shifted edge ids
	// share this map, as in the original schema).
	Labels map[int]*LabelSchema

	dtype map[labelPropKey]DType

	// vertex property byte layout
	prefixBytes map[labelPropKey]int
	totalBytes  map[int]int

	// edge property byte layout (see SPEC_FULL.md §C)
	edgePrefixBytes map[labelPropKey]int
	edgeTotalBytes  map[int]int
}

// New returns an empty Schema ready to be populated by AddLabel.
func New(elabelOffset int) *Schema {
	return &Schema{
		PropertyIndex:   make(map[string]int),
		LabelID:         make(map[string]int),
		ElabelOffset:    elabelOffset,
		EdgeRelation:    make(map[int][2]int),
		Labels:          make(map[int]*LabelSchema),
		dtype:           make(map[labelPropKey]DType),
		prefixBytes:     make(map[labelPropKey]int),
		totalBytes:      make(map[int]int),
		edgePrefixBytes: make(map[labelPropKey]int),
		edgeTotalBytes:  make(map[int]int),
	}
}

// IsEdgeLabel reports whether label id belongs to the edge-id range.
func (s *Schema) IsEdgeLabel(labelID int) bool { return labelID >= s.ElabelOffset }

// AddLabel registers a vertex or edge label's column layout and computes
// its prefix/total byte tables, mirroring update_property_bytes /
// insert_edge_prop_prefix_bytes in the original graph store.
func (s *Schema) AddLabel(ls *LabelSchema) {
	s.Labels[ls.ID] = ls
	s.LabelID[ls.Name] = ls.ID

	isEdge := s.IsEdgeLabel(ls.ID)
	prefix := 0
	for idx, col := range ls.Columns {
		key := labelPropKey{Label: ls.ID, Prop: idx}
		s.dtype[key] = col.DType
		if _, ok := s.PropertyIndex[col.Name]; !ok {
			s.PropertyIndex[col.Name] = idx
		}
		if isEdge {
			s.edgePrefixBytes[key] = prefix
		} else {
			s.prefixBytes[key] = prefix
		}
		prefix += col.VLen
	}
	if isEdge {
		s.edgeTotalBytes[ls.ID] = prefix
	} else {
		s.totalBytes[ls.ID] = prefix
	}
}

// DType returns the data type of property idx for labelID.
func (s *Schema) DType(labelID, propIdx int) (DType, bool) {
	d, ok := s.dtype[labelPropKey{Label: labelID, Prop: propIdx}]
	return d, ok
}

// PrefixBytes returns the byte offset of property idx within labelID's
// vertex property record.
func (s *Schema) PrefixBytes(labelID, propIdx int) int {
	return s.prefixBytes[labelPropKey{Label: labelID, Prop: propIdx}]
}

// TotalBytes returns the vertex property record stride for labelID.
func (s *Schema) TotalBytes(labelID int) int {
	return s.totalBytes[labelID]
}

// EdgePrefixBytes returns the byte offset of property idx within an edge
// label's property record (SPEC_FULL.md §C).
func (s *Schema) EdgePrefixBytes(elabelID, propIdx int) int {
	return s.edgePrefixBytes[labelPropKey{Label: elabelID, Prop: propIdx}]
}

// EdgeTotalBytes returns the edge property record stride for elabelID.
func (s *Schema) EdgeTotalBytes(elabelID int) int {
	return s.edgeTotalBytes[elabelID]
}

// jsonLabel is the wire shape used by MarshalForRegistry.
type jsonLabel struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Columns []jsonCol `json:"columns"`
}

type jsonCol struct {
	Name      string `json:"name"`
	DType     DType  `json:"dtype"`
	VLen      int    `json:"vlen"`
	Updatable bool   `json:"updatable"`
}

// jsonSchema is the document published to the metadata registry at
// <meta_prefix>gart_schema_p<partition>.
type jsonSchema struct {
	ElabelOffset int                `json:"elabel_offset"`
	EdgeRelation map[string][2]int  `json:"edge_relation"`
	Labels       []jsonLabel        `json:"labels"`
}

// MarshalForRegistry renders the schema as the JSON document published to
// the metadata registry, with labels in ascending id order. forGIE collapses wide string-like dtypes to
// STRING for the GIE frontend, mirroring get_json(gie) / fill_json in the
// original graph store.
func (s *Schema) MarshalForRegistry(forGIE bool) ([]byte, error) {
	doc := jsonSchema{
		ElabelOffset: s.ElabelOffset,
		EdgeRelation: make(map[string][2]int, len(s.EdgeRelation)),
	}
	for elabel, rel := range s.EdgeRelation {
		doc.EdgeRelation[fmt.Sprintf("%d", elabel)] = rel
	}
	ids := make([]int, 0, len(s.Labels))
	for id := range s.Labels {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		ls := s.Labels[id]
		jl := jsonLabel{ID: ls.ID, Name: ls.Name}
		for _, c := range ls.Columns {
			jl.Columns = append(jl.Columns, jsonCol{
				Name:      c.Name,
				DType:     c.DType.forGIE(forGIE),
				VLen:      c.VLen,
				Updatable: c.Updatable,
			})
		}
		doc.Labels = append(doc.Labels, jl)
	}
	return json.Marshal(doc)
}
