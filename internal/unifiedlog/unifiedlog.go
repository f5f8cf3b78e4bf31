package unifiedlog

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind distinguishes the two record shapes the unified log carries.
type Kind string

const (
	AddVertex Kind = "add_vertex"
	AddEdge   Kind = "add_edge"
)

// Record is one decoded unified-log line.
type Record struct {
	Kind  Kind
	Epoch uint64

	// GID is populated for AddVertex.
	GID uint64

	// EdgeLabelLocal, SrcGID, DstGID are populated for AddEdge.
	EdgeLabelLocal int
	SrcGID         uint64
	DstGID         uint64

	// Props holds the raw, already-string-formatted property values in
	// propertyDefList order, exactly as internal/translator serialized
	// them.
	Props []string
}

// EncodeVertex renders an add_vertex line, unterminated (no trailing '\n').
func EncodeVertex(epoch, gid uint64, props []string) string {
	fields := make([]string, 0, 3+len(props))
	fields = append(fields, string(AddVertex), strconv.FormatUint(epoch, 10), strconv.FormatUint(gid, 10))
	fields = append(fields, props...)
	return strings.Join(fields, "|")
}

// EncodeEdge renders an add_edge line, unterminated (no trailing '\n').
func EncodeEdge(epoch uint64, edgeLabelLocal int, srcGID, dstGID uint64, props []string) string {
	fields := make([]string, 0, 5+len(props))
	fields = append(fields,
		string(AddEdge),
		strconv.FormatUint(epoch, 10),
		strconv.Itoa(edgeLabelLocal),
		strconv.FormatUint(srcGID, 10),
		strconv.FormatUint(dstGID, 10),
	)
	fields = append(fields, props...)
	return strings.Join(fields, "|")
}

// Decode parses a single unified-log line (no trailing newline).
func Decode(line string) (*Record, error) {
	fields := strings.Split(line, "|")
	if len(fields) == 0 {
		return nil, fmt.Errorf("unifiedlog: empty line")
	}

	switch Kind(fields[0]) {
	case AddVertex:
		if len(fields) < 3 {
			return nil, fmt.Errorf("unifiedlog: add_vertex line has too few fields: %q", line)
		}
		epoch, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("unifiedlog: bad epoch in %q: %w", line, err)
		}
		gid, err := strconv.ParseUint(fields[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("unifiedlog: bad gid in %q: %w", line, err)
		}
		return &Record{Kind: AddVertex, Epoch: epoch, GID: gid, Props: fields[3:]}, nil

	case AddEdge:
		if len(fields) < 5 {
			return nil, fmt.Errorf("unifiedlog: add_edge line has too few fields: %q", line)
		}
		epoch, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("unifiedlog: bad epoch in %q: %w", line, err)
		}
		elabel, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("unifiedlog: bad edge label in %q: %w", line, err)
		}
		src, err := strconv.ParseUint(fields[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("unifiedlog: bad src gid in %q: %w", line, err)
		}
		dst, err := strconv.ParseUint(fields[4], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("unifiedlog: bad dst gid in %q: %w", line, err)
		}
		return &Record{
			Kind: AddEdge, Epoch: epoch, EdgeLabelLocal: elabel,
			SrcGID: src, DstGID: dst, Props: fields[5:],
		}, nil

	default:
		return nil, fmt.Errorf("unifiedlog: unrecognized record kind %q in %q", fields[0], line)
	}
}
