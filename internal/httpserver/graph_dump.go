package httpserver

import (
	"driver/internal/colormap"
	"driver/internal/engine"
	"driver/internal/hash"
)

// NodeDump is one key's entry in a GraphDump: its hash, kind (when
// known; a key only ever appears in the graph's seen set after being
// evaluated at least once, but an edge target recorded before its own
// evaluation carries its kind regardless), and last color/revision.
type NodeDump struct {
	Hash     string `json:"hash"`
	Kind     string `json:"kind,omitempty"`
	Color    string `json:"color,omitempty"`
	Revision uint64 `json:"revision,omitempty"`
}

// EdgeDump is one "from depended on to" relationship.
type EdgeDump struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// GraphDump is the JSON shape of GET /graph: every seen key with its
// current color/revision, plus the outgoing edges recorded for each.
type GraphDump struct {
	Nodes []NodeDump `json:"nodes"`
	Edges []EdgeDump `json:"edges"`
}

// DumpGraph renders the engine's dependency graph and color map, the
// live equivalent of the --print-graph CLI flag.
func DumpGraph(e *engine.Engine) GraphDump {
	snap := e.Graph().Snapshot()
	verdicts := e.Colors().All()

	kinds := make(map[hash.H]string)
	for _, edge := range snap.Edges {
		for _, to := range edge.To {
			kinds[hash.Of(to)] = to.KeyKind()
		}
	}

	dump := GraphDump{
		Nodes: make([]NodeDump, 0, len(snap.Seen)),
		Edges: make([]EdgeDump, 0),
	}
	for _, k := range snap.Seen {
		node := NodeDump{Hash: k.String(), Kind: kinds[k]}
		if v, ok := verdicts[k]; ok {
			node.Color = colorLabel(v)
			node.Revision = v.Revision
		}
		dump.Nodes = append(dump.Nodes, node)
	}
	for _, edge := range snap.Edges {
		for _, to := range edge.To {
			dump.Edges = append(dump.Edges, EdgeDump{From: edge.From.String(), To: hash.Of(to).String()})
		}
	}
	return dump
}

func colorLabel(v colormap.Verdict) string {
	return v.Color.String()
}
