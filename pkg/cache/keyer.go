package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// keyVersion is bumped whenever the layout algorithm or a renderer changes
// output for the same inputs.
const keyVersion = "v1"

// Keyer derives cache keys for pipeline stages.
type Keyer interface {
	// LayoutKey names the coordinates computed for a graph.
	LayoutKey(graph6 string, opts LayoutKeyOpts) string
	// ArtifactKey names a rendered document derived from a layout.
	ArtifactKey(layoutKey string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds every layout parameter that affects coordinates.
type LayoutKeyOpts struct {
	Width           float64 `json:"w"`
	Height          float64 `json:"h"`
	Margin          float64 `json:"m"`
	Iterations      int     `json:"it"`
	IdealEdgeLength float64 `json:"k"`
	Repulsion       float64 `json:"rep"`
	Stiffness       float64 `json:"stiff"`
	Gravity         float64 `json:"grav"`
	Seed            uint64  `json:"seed"`
	Grid            string  `json:"grid,omitempty"`
	GridSpacing     float64 `json:"gs,omitempty"`
}

// ArtifactKeyOpts holds the render inputs beyond the layout.
type ArtifactKeyOpts struct {
	Format    string `json:"fmt"`
	Highlight string `json:"hl"`    // canonical highlight set
	Style     string `json:"style"` // hash of the normalized style
	Title     string `json:"title,omitempty"`
}

// DefaultKeyer produces keys of the form "<stage>:<version>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(graph6 string, opts LayoutKeyOpts) string {
	return stageKey("layout", graph6, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutKey string, opts ArtifactKeyOpts) string {
	return stageKey("artifact", layoutKey, opts)
}

// stageKey hashes the JSON encoding of the stage input and its options. Both
// option structs contain only plain fields, so Marshal cannot fail.
func stageKey(stage, input string, opts any) string {
	data, _ := json.Marshal([]any{input, opts})
	return stage + ":" + keyVersion + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data. The server also uses it for the
// X-Graph-Hash header.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
