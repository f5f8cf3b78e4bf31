package translator

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/goccy/go-json"

	"github.com/dreamware/gartgraph/internal/graphstore"
	"github.com/dreamware/gartgraph/internal/idparser"
	"github.com/dreamware/gartgraph/internal/unifiedlog"
)

// ErrParse is returned for malformed JSON input. Per spec.md §7, parse
// errors only abort the process during RGMapping load; a per-message
// parse error here is meant to be logged and dropped by the caller.
var ErrParse = fmt.Errorf("translator: parse error")

// ErrUnknownOID is returned when an edge's endpoint OID has no recorded
// GID. The source dereferences past-end in this situation; this
// implementation surfaces it instead, since silently writing a sentinel
// GID would corrupt the graph (spec.md §7).
var ErrUnknownOID = fmt.Errorf("translator: unknown OID")

// ErrUnsupported is returned for recognized but unimplemented operations:
// delete and update of already-translated vertices/edges (spec.md §7,
// §9). The original converter silently no-ops these; this implementation
// rejects them so the operator can detect missing coverage.
var ErrUnsupported = fmt.Errorf("translator: unsupported operation")

type vertexTableInfo struct {
	labelID         int
	idColumn        string
	requiredProps   []string
}

type edgeTableInfo struct {
	labelID          int // edge-label local id (edge_id - vertexLabelNum)
	srcLabelID       int
	dstLabelID       int
	srcColumn        string
	dstColumn        string
	requiredProps    []string
}

// Translator holds all per-partition state the conversion loop needs:
// the RGMapping-derived label tables, the round-robin GID counters, the
// OID->GID maps, and the accepted-message counter that drives epoch
// stamping.
type Translator struct {
	mu sync.Mutex

	parser             *idparser.Parser
	numbersOfSubgraphs  int64
	logsPerEpoch        int64

	vertexTables map[string]vertexTableInfo // table_name -> info
	edgeTables   map[string]edgeTableInfo   // table_name -> info

	vertexNums           []int64   // per vertex label
	vertexNumsPerFragment [][]int64 // per vertex label, per partition

	oidMaps []*graphstore.OIDMaps // per vertex label

	logCount int64
}

// New builds a Translator from a parsed RGMapping and the converter's two
// tunables: numbersOfSubgraphs (partition count) and logsPerEpoch.
func New(mapping *RGMapping, numbersOfSubgraphs, logsPerEpoch int) (*Translator, error) {
	if numbersOfSubgraphs <= 0 {
		return nil, fmt.Errorf("translator: numbersOfSubgraphs must be positive")
	}
	if logsPerEpoch <= 0 {
		return nil, fmt.Errorf("translator: logsPerEpoch must be positive")
	}

	t := &Translator{
		parser:                idparser.New(numbersOfSubgraphs, mapping.VertexLabelNum),
		numbersOfSubgraphs:    int64(numbersOfSubgraphs),
		logsPerEpoch:          int64(logsPerEpoch),
		vertexTables:          make(map[string]vertexTableInfo),
		edgeTables:            make(map[string]edgeTableInfo),
		vertexNums:            make([]int64, mapping.VertexLabelNum),
		vertexNumsPerFragment: make([][]int64, mapping.VertexLabelNum),
		oidMaps:               make([]*graphstore.OIDMaps, mapping.VertexLabelNum),
	}
	for i := range t.vertexNumsPerFragment {
		t.vertexNumsPerFragment[i] = make([]int64, numbersOfSubgraphs)
		t.oidMaps[i] = graphstore.NewOIDMaps()
	}

	vertexLabelIDs := make(map[string]int) // label name -> id, for edge endpoint resolution
	type pendingEdge struct {
		tableName string
		info      edgeTableInfo
		srcLabel  string
		dstLabel  string
	}
	var pending []pendingEdge

	for _, ty := range mapping.Types {
		props := make([]string, 0, len(ty.PropertyDefList))
		for _, p := range ty.PropertyDefList {
			props = append(props, p.ColumnName)
		}

		switch ty.Type {
		case "VERTEX":
			t.vertexTables[ty.TableName] = vertexTableInfo{
				labelID:       ty.ID,
				idColumn:      ty.IDColumnName,
				requiredProps: props,
			}
			vertexLabelIDs[ty.Label] = ty.ID

		case "EDGE":
			if len(ty.RawRelationShip) == 0 {
				return nil, fmt.Errorf("translator: edge table %q has no rawRelationShips", ty.TableName)
			}
			rel := ty.RawRelationShip[0]
			pending = append(pending, pendingEdge{
				tableName: ty.TableName,
				info: edgeTableInfo{
					labelID:       ty.ID - mapping.VertexLabelNum,
					srcColumn:     rel.SrcColumnName,
					dstColumn:     rel.DstColumnName,
					requiredProps: props,
				},
				srcLabel: rel.SrcVertexLabel,
				dstLabel: rel.DstVertexLabel,
			})

		default:
			return nil, fmt.Errorf("translator: unrecognized RGMapping type %q for table %q", ty.Type, ty.TableName)
		}
	}

	for _, pe := range pending {
		srcID, ok := vertexLabelIDs[pe.srcLabel]
		if !ok {
			return nil, fmt.Errorf("translator: edge table %q references unknown src label %q", pe.tableName, pe.srcLabel)
		}
		dstID, ok := vertexLabelIDs[pe.dstLabel]
		if !ok {
			return nil, fmt.Errorf("translator: edge table %q references unknown dst label %q", pe.tableName, pe.dstLabel)
		}
		info := pe.info
		info.srcLabelID = srcID
		info.dstLabelID = dstID
		t.edgeTables[pe.tableName] = info
	}

	return t, nil
}

// event is the decoded shape of one binlog JSON line.
type event struct {
	Type  string
	Table string
	raw   map[string]any
}

func decodeEvent(line []byte) (*event, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()

	var parsed struct {
		Type  string         `json:"type"`
		Table string         `json:"table"`
		Data  map[string]any `json:"data"`
	}
	if err := dec.Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return &event{Type: parsed.Type, Table: parsed.Table, raw: parsed.Data}, nil
}

// Result is the outcome of translating one binlog line.
type Result struct {
	// Line is the encoded unified-log record. Empty when Dropped is true.
	Line string
	// Dropped is true when the message was silently ignored: unrecognized
	// type, or a table that is neither a vertex nor an edge table
	// (spec.md §4.5 step 1). Dropped messages do not advance the epoch
	// counter.
	Dropped bool
}

// Translate converts one binlog JSON line into a unified-log record.
// Only "insert" is implemented; "delete" and "update" return
// ErrUnsupported. Malformed JSON returns ErrParse. An edge whose endpoint
// OID has no recorded GID returns ErrUnknownOID.
func (t *Translator) Translate(line []byte) (*Result, error) {
	ev, err := decodeEvent(line)
	if err != nil {
		return nil, err
	}

	switch ev.Type {
	case "insert":
		// fall through to the translation below
	case "delete", "update":
		return nil, fmt.Errorf("%w: %s on table %q", ErrUnsupported, ev.Type, ev.Table)
	default:
		return &Result{Dropped: true}, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if vt, ok := t.vertexTables[ev.Table]; ok {
		return t.translateVertexInsert(vt, ev)
	}
	if et, ok := t.edgeTables[ev.Table]; ok {
		return t.translateEdgeInsert(et, ev)
	}
	return &Result{Dropped: true}, nil
}

func (t *Translator) translateVertexInsert(vt vertexTableInfo, ev *event) (*Result, error) {
	epoch := uint64(t.logCount / t.logsPerEpoch)

	fid := t.vertexNums[vt.labelID] % t.numbersOfSubgraphs
	offset := t.vertexNumsPerFragment[vt.labelID][fid]
	t.vertexNums[vt.labelID]++
	t.vertexNumsPerFragment[vt.labelID][fid]++

	gid, err := t.parser.Generate(fid, int64(vt.labelID), offset)
	if err != nil {
		return nil, fmt.Errorf("translator: generate GID for table %q: %w", ev.Table, err)
	}

	if oid, isInt, ok := scalarOID(ev.raw[vt.idColumn]); ok {
		if isInt {
			t.oidMaps[vt.labelID].PutInt64(oid.(int64), gid)
		} else {
			t.oidMaps[vt.labelID].PutString(oid.(string), gid)
		}
	}

	props := serializeProps(ev.raw, vt.requiredProps)
	t.logCount++
	return &Result{Line: unifiedlog.EncodeVertex(epoch, uint64(gid), props)}, nil
}

func (t *Translator) translateEdgeInsert(et edgeTableInfo, ev *event) (*Result, error) {
	epoch := uint64(t.logCount / t.logsPerEpoch)

	srcGID, err := t.resolveGID(et.srcLabelID, ev.raw[et.srcColumn])
	if err != nil {
		return nil, fmt.Errorf("translator: resolve src endpoint for table %q: %w", ev.Table, err)
	}
	dstGID, err := t.resolveGID(et.dstLabelID, ev.raw[et.dstColumn])
	if err != nil {
		return nil, fmt.Errorf("translator: resolve dst endpoint for table %q: %w", ev.Table, err)
	}

	props := serializeProps(ev.raw, et.requiredProps)
	t.logCount++
	return &Result{Line: unifiedlog.EncodeEdge(epoch, et.labelID, uint64(srcGID), uint64(dstGID), props)}, nil
}

func (t *Translator) resolveGID(labelID int, v any) (idparser.GID, error) {
	oid, isInt, ok := scalarOID(v)
	if !ok {
		return 0, fmt.Errorf("%w: endpoint column holds no scalar value", ErrUnknownOID)
	}
	maps := t.oidMaps[labelID]
	if isInt {
		gid, ok := maps.GetInt64(oid.(int64))
		if !ok {
			return 0, fmt.Errorf("%w: int64 oid %v for label %d", ErrUnknownOID, oid, labelID)
		}
		return gid, nil
	}
	gid, ok := maps.GetString(oid.(string))
	if !ok {
		return 0, fmt.Errorf("%w: string oid %v for label %d", ErrUnknownOID, oid, labelID)
	}
	return gid, nil
}

// scalarOID classifies a decoded JSON value as an int64 or string OID,
// matching the source's is_number_integer()/is_string() dispatch. Other
// types (float, bool, null, missing) return ok=false.
func scalarOID(v any) (value any, isInt bool, ok bool) {
	switch x := v.(type) {
	case json.Number:
		if isIntegerLiteral(x) {
			n, err := x.Int64()
			if err != nil {
				return nil, false, false
			}
			return n, true, true
		}
		return nil, false, false
	case string:
		return x, false, true
	default:
		return nil, false, false
	}
}

func isIntegerLiteral(n json.Number) bool {
	s := n.String()
	return !strings.ContainsAny(s, ".eE")
}

// serializeProps formats each required property in propertyDefList order:
// numbers render as their JSON literal text, strings render raw. A missing
// value, or one that is neither a string nor a number (object, array,
// bool, null), skips that property entirely (spec.md §4.5 step 5).
func serializeProps(data map[string]any, names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		v, present := data[name]
		if !present {
			continue
		}
		switch x := v.(type) {
		case string:
			out = append(out, x)
		case json.Number:
			out = append(out, x.String())
		default:
			continue
		}
	}
	return out
}

// LogCount returns the number of messages successfully translated so far.
func (t *Translator) LogCount() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.logCount
}
