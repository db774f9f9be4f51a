package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/g6viz/pkg/graph"
	"github.com/matzehuels/g6viz/pkg/graph6"
)

// graphInfo is the inspect command's report.
type graphInfo struct {
	Graph6   string       `json:"graph6"`
	Vertices int          `json:"vertices"`
	Edges    int          `json:"edges"`
	Degrees  []int        `json:"degrees"`
	EdgeList []graph.Edge `json:"edge_list"`
}

func newGraphInfo(g *graph.Graph) graphInfo {
	edges := g.EdgeList()
	if edges == nil {
		edges = []graph.Edge{}
	}
	return graphInfo{
		Graph6:   graph6.Encode(g),
		Vertices: g.VertexCount(),
		Edges:    g.EdgeCount(),
		Degrees:  g.Degrees(),
		EdgeList: edges,
	}
}

// inspectCommand creates the inspect command for summarizing a graph.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		index  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <graph6|file|->",
		Short: "Print vertex count, edges and degrees of a graph6 graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(args[0], cmd.InOrStdin(), index)
			if err != nil {
				return err
			}
			g, err := graph6.Decode(in.Text)
			if err != nil {
				return err
			}
			info := newGraphInfo(g)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			writeGraphInfo(cmd.OutOrStdout(), info)
			return nil
		},
	}

	cmd.Flags().IntVar(&index, "index", 1, "graph to inspect from a multi-graph file (1-based)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")

	return cmd
}

func writeGraphInfo(w io.Writer, info graphInfo) {
	degrees := make([]string, len(info.Degrees))
	for i, d := range info.Degrees {
		degrees[i] = strconv.Itoa(d)
	}
	edges := make([]string, len(info.EdgeList))
	for i, e := range info.EdgeList {
		edges[i] = e.String()
	}
	fmt.Fprintf(w, "%-9s %s\n", "graph6", info.Graph6)
	fmt.Fprintf(w, "%-9s %d\n", "vertices", info.Vertices)
	fmt.Fprintf(w, "%-9s %d\n", "edges", info.Edges)
	fmt.Fprintf(w, "%-9s %s\n", "degrees", strings.Join(degrees, " "))
	fmt.Fprintf(w, "%-9s %s\n", "edge list", strings.Join(edges, " "))
}

// encodeCommand creates the encode command for building graph6 from an edge list.
func (c *CLI) encodeCommand() *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "encode [u-v ...]",
		Short: "Encode an edge list as graph6",
		Example: `  g6viz encode -n 5 0-1 1-2 2-3 3-4 4-0
  g6viz encode 0-1 1-2 0-2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := encodeEdges(n, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}

	cmd.Flags().IntVarP(&n, "vertices", "n", -1, "vertex count (default: largest endpoint + 1)")

	return cmd
}

// encodeEdges builds a graph from "u-v" or "u,v" pairs and encodes it. A
// negative n sizes the graph to fit the largest endpoint.
func encodeEdges(n int, pairs []string) (string, error) {
	edges := make([]graph.Edge, 0, len(pairs))
	maxV := -1
	for _, p := range pairs {
		e, err := parseEdge(p)
		if err != nil {
			return "", err
		}
		maxV = max(maxV, e.U, e.V)
		edges = append(edges, e)
	}
	if n < 0 {
		n = maxV + 1
	}
	g, err := graph.New(n, edges)
	if err != nil {
		return "", err
	}
	return graph6.Encode(g), nil
}

func parseEdge(s string) (graph.Edge, error) {
	u, v, ok := strings.Cut(s, "-")
	if !ok {
		u, v, ok = strings.Cut(s, ",")
	}
	if !ok {
		return graph.Edge{}, fmt.Errorf("invalid edge %q: want u-v", s)
	}
	a, err := strconv.Atoi(strings.TrimSpace(u))
	if err != nil {
		return graph.Edge{}, fmt.Errorf("invalid edge %q: %w", s, err)
	}
	b, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return graph.Edge{}, fmt.Errorf("invalid edge %q: %w", s, err)
	}
	return graph.Edge{U: a, V: b}, nil
}
