package plan

import (
	"fmt"

	"github.com/slchen/vcpkg/graphs"
	"github.com/slchen/vcpkg/log"
	"github.com/slchen/vcpkg/ports"
	"github.com/slchen/vcpkg/specs"
	"github.com/slchen/vcpkg/status"
)

// graphPlan accumulates the install and remove graphs while the mark
// engine runs. Edge orientation encodes the serialization order: the topo
// sort always emits edge targets before sources.
type graphPlan struct {
	removeGraph  *graphs.Graph[*Cluster]
	installGraph *graphs.Graph[*Cluster]
}

// PackageGraph is one feature-install planning run: a cluster graph seeded
// from the installed state plus the accumulating graph plan. Seed requests
// with Install/Upgrade, then call Serialize once.
type PackageGraph struct {
	graph  *ClusterGraph
	plan   *graphPlan
	logger log.LibraryLogger
}

// NewPackageGraph seeds a planning run from the port provider and the
// installed-state snapshot. Both must outlive the PackageGraph; the
// planner borrows their data.
func NewPackageGraph(provider ports.PortFileProvider, statusDB *status.StatusParagraphs, logger log.LibraryLogger) *PackageGraph {
	if logger == nil {
		logger = log.NoOpLogger{}
	}
	return &PackageGraph{
		graph: createFeatureInstallGraph(provider, statusDB),
		plan: &graphPlan{
			removeGraph:  graphs.New[*Cluster](),
			installGraph: graphs.New[*Cluster](),
		},
		logger: logger,
	}
}

// markPlus marks a feature for installation and recursively pulls in its
// build dependencies. found is false when the feature is not declared by
// the cluster; the caller decides whether that is fatal. A non-nil error
// aborts the whole plan.
func (pg *PackageGraph) markPlus(feature string, cluster *Cluster) (found bool, err error) {
	if feature == "" {
		// Indicates that core was not specified in the reference
		return pg.markPlus(coreFeature, cluster)
	}

	node, ok := cluster.findEdge(feature)
	if !ok {
		return false, nil
	}

	if node.plus {
		return true, nil
	}

	if !cluster.hasOriginal(feature) {
		// A feature the installed package does not have forces a rebuild,
		// which transiently removes the package.
		cluster.TransientUninstalled = true
	}

	if !cluster.TransientUninstalled {
		return true, nil
	}
	node.plus = true

	if len(cluster.OriginalFeatures) > 0 {
		if err := pg.markMinus(cluster); err != nil {
			return false, err
		}
	}

	pg.plan.installGraph.AddVertex(cluster)
	cluster.ToInstallFeatures[feature] = struct{}{}

	if feature != coreFeature {
		// All features implicitly depend on core.
		coreFound, err := pg.markPlus(coreFeature, cluster)
		if err != nil {
			return false, err
		}
		if !coreFound {
			// Cannot happen for a cluster with a valid SCF.
			return false, fmt.Errorf("internal: %s has no core feature", cluster.Spec)
		}
	}

	for _, dep := range node.buildEdges {
		depCluster := pg.graph.Get(dep.Spec)
		depFound, err := pg.markPlus(dep.Feature, depCluster)
		if err != nil {
			return false, err
		}
		if !depFound {
			return false, &UnsatisfiedDependencyError{
				Dependency: dep,
				Dependent:  specs.FeatureSpec{Spec: cluster.Spec, Feature: feature},
			}
		}

		if depCluster == cluster {
			continue
		}
		pg.plan.installGraph.AddEdge(cluster, depCluster)
	}

	return true, nil
}

// markMinus schedules a cluster for removal, cascades through its reverse
// dependents, and replays the originally installed features so the
// rebuild restores them. Idempotent via WillRemove.
func (pg *PackageGraph) markMinus(cluster *Cluster) error {
	if cluster.WillRemove {
		return nil
	}
	cluster.WillRemove = true

	pg.plan.removeGraph.AddVertex(cluster)
	for _, feature := range cluster.edgeOrder {
		for _, revDep := range cluster.edges[feature].removeEdges {
			depCluster := pg.graph.Get(revDep.Spec)
			pg.plan.removeGraph.AddEdge(cluster, depCluster)
			if err := pg.markMinus(depCluster); err != nil {
				return err
			}
		}
	}

	cluster.TransientUninstalled = true
	for _, original := range sortedFeatures(cluster.OriginalFeatures) {
		found, err := pg.markPlus(original, cluster)
		if err != nil {
			return err
		}
		if !found {
			// The port may have dropped the feature upstream; removal
			// still proceeds.
			pg.logger.Warn("could not reinstall feature %s",
				specs.FeatureSpec{Spec: cluster.Spec, Feature: original})
		}
	}
	return nil
}

// Install seeds one user request. The wildcard feature "*" expands to
// every declared feature plus core and requires port metadata.
func (pg *PackageGraph) Install(fspec specs.FeatureSpec) error {
	cluster := pg.graph.Get(fspec.Spec)
	cluster.RequestType = UserRequested

	if fspec.Feature == "*" {
		if cluster.SourceControlFile == nil {
			return &NoSuchPackageError{Spec: fspec.Spec}
		}

		for _, feature := range cluster.SourceControlFile.Features {
			found, err := pg.markPlus(feature.Name, cluster)
			if err != nil {
				return err
			}
			if !found {
				return &FeatureNotFoundError{Spec: specs.FeatureSpec{Spec: fspec.Spec, Feature: feature.Name}}
			}
		}

		found, err := pg.markPlus(coreFeature, cluster)
		if err != nil {
			return err
		}
		if !found {
			return &FeatureNotFoundError{Spec: specs.FeatureSpec{Spec: fspec.Spec, Feature: coreFeature}}
		}
	} else {
		found, err := pg.markPlus(fspec.Feature, cluster)
		if err != nil {
			return err
		}
		if !found {
			return &FeatureNotFoundError{Spec: fspec}
		}
	}

	// Even a no-op request shows up in the plan as "already installed".
	pg.plan.installGraph.AddVertex(cluster)
	return nil
}

// Upgrade seeds a rebuild of an installed package. The reinstall half is
// handled inside markMinus via the original-features replay.
func (pg *PackageGraph) Upgrade(spec specs.PackageSpec) error {
	cluster := pg.graph.Get(spec)
	cluster.RequestType = UserRequested
	return pg.markMinus(cluster)
}

// Serialize linearizes both graphs into the emitted plan: all removes
// first (dependents before dependencies), then all installs (dependencies
// before dependents).
func (pg *PackageGraph) Serialize() ([]AnyAction, error) {
	removeTopo, err := pg.plan.removeGraph.TopologicalSort()
	if err != nil {
		return nil, err
	}
	installTopo, err := pg.plan.installGraph.TopologicalSort()
	if err != nil {
		return nil, err
	}

	var actions []AnyAction

	for _, cluster := range removeTopo {
		if cluster.SourceControlFile == nil {
			return nil, &MissingControlFileError{Spec: cluster.Spec}
		}
		spec := specs.PackageSpec{
			Name:    cluster.SourceControlFile.Core.Name,
			Triplet: cluster.Spec.Triplet,
		}
		actions = append(actions, AnyAction{Remove: &RemoveAction{
			Spec:        spec,
			PlanType:    RemovePackage,
			RequestType: cluster.RequestType,
		}})
	}

	for _, cluster := range installTopo {
		if cluster.TransientUninstalled {
			// A transiently uninstalled package needs a full build and
			// install command.
			if cluster.SourceControlFile == nil {
				return nil, &MissingControlFileError{Spec: cluster.Spec}
			}
			actions = append(actions, AnyAction{Install: &InstallAction{
				Spec:              cluster.Spec,
				SourceControlFile: cluster.SourceControlFile,
				Features:          sortedFeatures(cluster.ToInstallFeatures),
				PlanType:          BuildAndInstall,
				RequestType:       cluster.RequestType,
			}})
			continue
		}

		// Not transiently installed: only report it if the user asked.
		if cluster.RequestType != UserRequested {
			continue
		}
		actions = append(actions, AnyAction{Install: &InstallAction{
			Spec:        cluster.Spec,
			Features:    sortedFeatures(cluster.OriginalFeatures),
			PlanType:    AlreadyInstalled,
			RequestType: cluster.RequestType,
		}})
	}

	return actions, nil
}
