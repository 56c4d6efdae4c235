package layout

// Tier is a spacing pair used when a topology has more than MinNodes nodes.
type Tier struct {
	MinNodes int     `toml:"min_nodes" json:"minNodes" validate:"gte=0"`
	NodeSep  float64 `toml:"node_sep" json:"nodeSep" validate:"gte=0"`
	RankSep  float64 `toml:"rank_sep" json:"rankSep" validate:"gte=0"`
}

// RankedConfig tunes a ranked strategy.
type RankedConfig struct {
	NodeWidth  float64 `toml:"node_width" json:"nodeWidth" validate:"gt=0"`
	NodeHeight float64 `toml:"node_height" json:"nodeHeight" validate:"gt=0"`
	Margin     float64 `toml:"margin" json:"margin" validate:"gte=0"`
	Tiers      []Tier  `toml:"tiers" json:"tiers" validate:"min=1,dive"`

	// Above CompactAbove nodes the compact node box is used instead.
	// Zero disables compaction.
	CompactAbove      int     `toml:"compact_above" json:"compactAbove" validate:"gte=0"`
	CompactNodeWidth  float64 `toml:"compact_node_width" json:"compactNodeWidth" validate:"gte=0"`
	CompactNodeHeight float64 `toml:"compact_node_height" json:"compactNodeHeight" validate:"gte=0"`

	// Above FlowAbove nodes the flow layout is used instead. Zero disables it.
	FlowAbove int `toml:"flow_above" json:"flowAbove" validate:"gte=0"`

	// Route attaches a smoothstep routing hint and forces the stroke width.
	Route       bool    `toml:"route" json:"route"`
	EdgeOffset  float64 `toml:"edge_offset" json:"edgeOffset" validate:"gte=0"`
	EdgeRadius  float64 `toml:"edge_radius" json:"edgeRadius" validate:"gte=0"`
	StrokeWidth float64 `toml:"stroke_width" json:"strokeWidth" validate:"gte=0"`
}

// Weights are the ordering weights of the smart strategy. An edge touching
// a scanner weighs Scanner; a default route weighs Default and takes
// precedence; every other edge weighs 1.
type Weights struct {
	Scanner int `toml:"scanner" json:"scanner" validate:"gte=1"`
	Default int `toml:"default" json:"default" validate:"gte=1"`
}

// GridConfig tunes the grid strategy.
type GridConfig struct {
	Spacing float64 `toml:"spacing" json:"spacing" validate:"gt=0"`
	Offset  float64 `toml:"offset" json:"offset"`
}

// RadialConfig tunes the radial strategy.
type RadialConfig struct {
	CenterX float64 `toml:"center_x" json:"centerX"`
	CenterY float64 `toml:"center_y" json:"centerY"`
	Radius  float64 `toml:"radius" json:"radius" validate:"gte=0"`
}

// FlowConfig tunes the flow strategy.
type FlowConfig struct {
	StartX    float64 `toml:"start_x" json:"startX"`
	StartY    float64 `toml:"start_y" json:"startY"`
	NodePitch float64 `toml:"node_pitch" json:"nodePitch" validate:"gt=0"`
	RowPitch  float64 `toml:"row_pitch" json:"rowPitch" validate:"gt=0"`

	// FeederPattern matches codes of nodes that always start a chain.
	FeederPattern string `toml:"feeder_pattern" json:"feederPattern" validate:"omitempty,regexp"`

	EdgeOffset  float64 `toml:"edge_offset" json:"edgeOffset" validate:"gte=0"`
	EdgeRadius  float64 `toml:"edge_radius" json:"edgeRadius" validate:"gte=0"`
	StrokeWidth float64 `toml:"stroke_width" json:"strokeWidth" validate:"gte=0"`
}

// Config holds the tunables of every strategy.
type Config struct {
	Hierarchical RankedConfig `toml:"hierarchical" json:"hierarchical"`
	Horizontal   RankedConfig `toml:"horizontal" json:"horizontal"`
	Smart        RankedConfig `toml:"smart" json:"smart"`
	Weights      Weights      `toml:"weights" json:"weights"`
	Grid         GridConfig   `toml:"grid" json:"grid"`
	Radial       RadialConfig `toml:"radial" json:"radial"`
	Flow         FlowConfig   `toml:"flow" json:"flow"`

	// MaxIterations caps the median ordering sweeps.
	MaxIterations int `toml:"max_iterations" json:"maxIterations" validate:"gte=1"`
}

// DefaultMaxIterations is the default cap on ordering sweeps.
const DefaultMaxIterations = 24

// DefaultFeederPattern matches the codes of warehouse feeder stations.
const DefaultFeederPattern = `^(61|63|65|V)`

// DefaultConfig returns the tunables the editor ships with.
func DefaultConfig() Config {
	return Config{
		Hierarchical: RankedConfig{
			NodeWidth:  120,
			NodeHeight: 80,
			Margin:     10,
			Tiers: []Tier{
				{MinNodes: 100, NodeSep: 25, RankSep: 50},
				{MinNodes: 50, NodeSep: 35, RankSep: 60},
				{MinNodes: 0, NodeSep: 50, RankSep: 80},
			},
			Route:       true,
			EdgeOffset:  20,
			EdgeRadius:  10,
			StrokeWidth: 2,
		},
		Horizontal: RankedConfig{
			NodeWidth:  150,
			NodeHeight: 100,
			Margin:     10,
			Tiers: []Tier{
				{MinNodes: 100, NodeSep: 30, RankSep: 60},
				{MinNodes: 50, NodeSep: 50, RankSep: 80},
				{MinNodes: 0, NodeSep: 80, RankSep: 120},
			},
			CompactAbove:      50,
			CompactNodeWidth:  100,
			CompactNodeHeight: 60,
			FlowAbove:         80,
			Route:             true,
			EdgeOffset:        20,
			EdgeRadius:        10,
			StrokeWidth:       2,
		},
		Smart: RankedConfig{
			NodeWidth:  80,
			NodeHeight: 80,
			Margin:     80,
			Tiers: []Tier{
				{MinNodes: 100, NodeSep: 120, RankSep: 180},
				{MinNodes: 50, NodeSep: 150, RankSep: 220},
				{MinNodes: 0, NodeSep: 180, RankSep: 280},
			},
		},
		Weights: Weights{Scanner: 3, Default: 5},
		Grid:    GridConfig{Spacing: 150, Offset: 100},
		Radial:  RadialConfig{CenterX: 400, CenterY: 300, Radius: 200},
		Flow: FlowConfig{
			StartX:        50,
			StartY:        50,
			NodePitch:     80,
			RowPitch:      120,
			FeederPattern: DefaultFeederPattern,
			EdgeOffset:    10,
			EdgeRadius:    8,
			StrokeWidth:   2,
		},
		MaxIterations: DefaultMaxIterations,
	}
}

// tier returns the spacing for a topology of n nodes: the tier with the
// largest MinNodes below n, or the lowest tier when none qualifies.
func (c RankedConfig) tier(n int) Tier {
	var best, lowest *Tier
	for i := range c.Tiers {
		t := &c.Tiers[i]
		if lowest == nil || t.MinNodes < lowest.MinNodes {
			lowest = t
		}
		if n > t.MinNodes && (best == nil || t.MinNodes > best.MinNodes) {
			best = t
		}
	}
	switch {
	case best != nil:
		return *best
	case lowest != nil:
		return *lowest
	default:
		return Tier{}
	}
}

// nodeSize returns the node box used for a topology of n nodes.
func (c RankedConfig) nodeSize(n int) (w, h float64) {
	if c.CompactAbove > 0 && n > c.CompactAbove && c.CompactNodeWidth > 0 && c.CompactNodeHeight > 0 {
		return c.CompactNodeWidth, c.CompactNodeHeight
	}
	return c.NodeWidth, c.NodeHeight
}
