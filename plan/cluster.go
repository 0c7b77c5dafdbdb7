package plan

import (
	"sort"

	"github.com/slchen/vcpkg/ports"
	"github.com/slchen/vcpkg/specs"
	"github.com/slchen/vcpkg/status"
)

// coreFeature is the implicit feature every port has: the package with no
// extra features selected. Empty feature strings normalize to it.
const coreFeature = "core"

// featureNodeEdges is the per-feature planning state of a cluster.
// buildEdges point forward at the features this one needs; removeEdges
// point backward at the installed features that need this one.
type featureNodeEdges struct {
	buildEdges  []specs.FeatureSpec
	removeEdges []specs.FeatureSpec
	plus        bool
}

// Cluster is the planner's working state for one package instance. All
// clusters live in the ClusterGraph arena for the duration of a single
// planning run; cross-references go through specs, not pointers.
type Cluster struct {
	Spec              specs.PackageSpec
	SourceControlFile *ports.SourceControlFile
	StatusParagraphs  []*status.StatusParagraph

	// edges is keyed by feature name; edgeOrder preserves insertion order
	// so traversal is deterministic across runs.
	edges     map[string]*featureNodeEdges
	edgeOrder []string

	ToInstallFeatures map[string]struct{}
	OriginalFeatures  map[string]struct{}

	WillRemove bool

	// TransientUninstalled is true iff after the plan step the package
	// will (or did) leave the installed state temporarily. It starts true
	// and is cleared when an installed row is found.
	TransientUninstalled bool

	RequestType RequestType
}

func newCluster(spec specs.PackageSpec) *Cluster {
	return &Cluster{
		Spec:                 spec,
		edges:                make(map[string]*featureNodeEdges),
		ToInstallFeatures:    make(map[string]struct{}),
		OriginalFeatures:     make(map[string]struct{}),
		TransientUninstalled: true,
	}
}

// edge returns the edge node for a feature, creating it on first use.
func (c *Cluster) edge(feature string) *featureNodeEdges {
	if e, ok := c.edges[feature]; ok {
		return e
	}
	e := &featureNodeEdges{}
	c.edges[feature] = e
	c.edgeOrder = append(c.edgeOrder, feature)
	return e
}

// findEdge looks a feature up without creating it.
func (c *Cluster) findEdge(feature string) (*featureNodeEdges, bool) {
	e, ok := c.edges[feature]
	return e, ok
}

func (c *Cluster) hasOriginal(feature string) bool {
	_, ok := c.OriginalFeatures[feature]
	return ok
}

// fromSCF populates the cluster's forward edges from port metadata,
// filtering each dependency list against the cluster's triplet.
func (c *Cluster) fromSCF(scf *ports.SourceControlFile) {
	core := c.edge(coreFeature)
	core.buildEdges = ports.FilterDependenciesToSpecs(scf.Core.Depends, c.Spec.Triplet)

	for _, feature := range scf.Features {
		e := c.edge(feature.Name)
		e.buildEdges = ports.FilterDependenciesToSpecs(feature.Depends, c.Spec.Triplet)
	}
	c.SourceControlFile = scf
}

// ClusterGraph is the arena of clusters for one planning run, materialized
// lazily from the port provider.
type ClusterGraph struct {
	provider ports.PortFileProvider
	clusters map[specs.PackageSpec]*Cluster
}

func newClusterGraph(provider ports.PortFileProvider) *ClusterGraph {
	return &ClusterGraph{
		provider: provider,
		clusters: make(map[specs.PackageSpec]*Cluster),
	}
}

// Get returns the cluster for spec, creating and populating it on first
// use. Load on-demand from the provider; a missing port yields a cluster
// with no edges and no metadata.
func (g *ClusterGraph) Get(spec specs.PackageSpec) *Cluster {
	if c, ok := g.clusters[spec]; ok {
		return c
	}
	c := newCluster(spec)
	g.clusters[spec] = c
	if scf, ok := g.provider.GetControlFile(spec.Name); ok {
		c.fromSCF(scf)
	}
	return c
}

// createFeatureInstallGraph seeds a cluster graph from the installed
// state. The first pass records what is installed; the second populates
// the reverse "remove edges" so markMinus can discover reverse-dependent
// removals without scanning the installed list.
func createFeatureInstallGraph(provider ports.PortFileProvider, statusDB *status.StatusParagraphs) *ClusterGraph {
	graph := newClusterGraph(provider)

	installed := statusDB.Installed()

	for _, row := range installed {
		cluster := graph.Get(row.Spec)

		cluster.TransientUninstalled = false
		cluster.StatusParagraphs = append(cluster.StatusParagraphs, row)

		// An empty feature string indicates the core paragraph.
		feature := row.Feature
		if feature == "" {
			feature = coreFeature
		}
		cluster.OriginalFeatures[feature] = struct{}{}
	}

	for _, row := range installed {
		for _, dep := range specs.FeatureSpecsFromNames(row.Depends, row.Spec.Triplet) {
			depCluster := graph.Get(dep.Spec)

			depFeature := dep.Feature
			if depFeature == "" {
				depFeature = coreFeature
			}

			node := depCluster.edge(depFeature)
			node.removeEdges = append(node.removeEdges, specs.FeatureSpec{
				Spec:    row.Spec,
				Feature: row.Feature,
			})
		}
	}

	return graph
}

// sortedFeatures copies a feature set into a lexicographically sorted
// slice. Plan actions carry these copies so they do not alias planner
// state, and so equal inputs always emit equal feature lists.
func sortedFeatures(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for f := range set {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
