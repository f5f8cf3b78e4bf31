package translator

import (
	"fmt"

	"github.com/goccy/go-json"
)

// RGMapping is the relational-to-graph mapping document the translator
// loads at startup (spec.md §6). Top-level shape:
// { "vertexLabelNum": N, "types": [ ... ] }.
type RGMapping struct {
	VertexLabelNum int         `json:"vertexLabelNum"`
	Types          []RGMapType `json:"types"`
}

// RGMapType is one entry of RGMapping.Types: a VERTEX or EDGE table
// mapping.
type RGMapType struct {
	Type            string               `json:"type"` // "VERTEX" or "EDGE"
	ID              int                  `json:"id"`
	TableName       string               `json:"table_name"`
	Label           string               `json:"label"`
	IDColumnName    string               `json:"id_column_name,omitempty"`
	RawRelationShip []RGRawRelationShip  `json:"rawRelationShips,omitempty"`
	PropertyDefList []RGPropertyDef      `json:"propertyDefList"`
}

// RGRawRelationShip names the endpoint columns and labels for an EDGE
// type. Only the first entry is used, matching the original converter's
// rawRelationShips[0].
type RGRawRelationShip struct {
	SrcVertexLabel string `json:"srcVertexLabel"`
	DstVertexLabel string `json:"dstVertexLabel"`
	SrcColumnName  string `json:"src_column_name"`
	DstColumnName  string `json:"dst_column_name"`
}

// RGPropertyDef names one property column to carry through to the
// unified log, in declaration order.
type RGPropertyDef struct {
	ColumnName string `json:"column_name"`
}

// ParseRGMapping parses an RGMapping document.
func ParseRGMapping(data []byte) (*RGMapping, error) {
	var m RGMapping
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("translator: parse RGMapping: %w", err)
	}
	return &m, nil
}
