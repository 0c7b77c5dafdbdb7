package plan

import (
	"github.com/slchen/vcpkg/graphs"
	"github.com/slchen/vcpkg/log"
	"github.com/slchen/vcpkg/ports"
	"github.com/slchen/vcpkg/specs"
	"github.com/slchen/vcpkg/status"
)

// CreateFeatureInstallPlan computes the full feature-aware plan for the
// requested feature specs against the installed state.
func CreateFeatureInstallPlan(provider ports.PortFileProvider, fspecs []specs.FeatureSpec, statusDB *status.StatusParagraphs, logger log.LibraryLogger) ([]AnyAction, error) {
	pg := NewPackageGraph(provider, statusDB, logger)
	for _, fspec := range fspecs {
		if err := pg.Install(fspec); err != nil {
			return nil, err
		}
	}
	return pg.Serialize()
}

// CreateInstallPlan is the spec-only variant: every request is the bare
// package with no features. It fails with ErrFeaturesRequired when the
// computed plan contains anything but install actions.
func CreateInstallPlan(provider ports.PortFileProvider, pspecs []specs.PackageSpec, statusDB *status.StatusParagraphs, logger log.LibraryLogger) ([]InstallAction, error) {
	fspecs := make([]specs.FeatureSpec, 0, len(pspecs))
	for _, spec := range pspecs {
		fspecs = append(fspecs, specs.FeatureSpec{Spec: spec})
	}

	actions, err := CreateFeatureInstallPlan(provider, fspecs, statusDB, logger)
	if err != nil {
		return nil, err
	}

	out := make([]InstallAction, 0, len(actions))
	for _, action := range actions {
		if action.Install == nil {
			return nil, ErrFeaturesRequired
		}
		out = append(out, *action.Install)
	}
	return out, nil
}

// removeAdjacencyProvider walks reverse dependencies over the installed
// state for the standalone remove planner.
type removeAdjacencyProvider struct {
	statusDB       *status.StatusParagraphs
	installedPorts []*status.StatusParagraph
	requested      map[specs.PackageSpec]struct{}
}

func (p *removeAdjacencyProvider) LoadVertexData(spec specs.PackageSpec) (RemoveAction, error) {
	requestType := AutoSelected
	if _, ok := p.requested[spec]; ok {
		requestType = UserRequested
	}

	planType := RemovePackage
	if p.statusDB.FindInstalled(spec) == nil {
		planType = RemoveNotInstalled
	}
	return RemoveAction{Spec: spec, PlanType: planType, RequestType: requestType}, nil
}

func (p *removeAdjacencyProvider) AdjacencyList(action RemoveAction) ([]specs.PackageSpec, error) {
	if action.PlanType == RemoveNotInstalled {
		return nil, nil
	}

	// Remove-edges only exist between ports of the same triplet.
	var dependents []specs.PackageSpec
	for _, row := range p.installedPorts {
		if row.Spec.Triplet != action.Spec.Triplet {
			continue
		}
		for _, dep := range row.Depends {
			if dep == action.Spec.Name {
				dependents = append(dependents, row.Spec)
				break
			}
		}
	}
	return dependents, nil
}

func (p *removeAdjacencyProvider) FormatKey(spec specs.PackageSpec) string {
	return spec.String()
}

// CreateRemovePlan orders the requested removals together with every
// installed package that transitively depends on them, dependents first.
func CreateRemovePlan(pspecs []specs.PackageSpec, statusDB *status.StatusParagraphs) ([]RemoveAction, error) {
	requested := make(map[specs.PackageSpec]struct{}, len(pspecs))
	for _, spec := range pspecs {
		requested[spec] = struct{}{}
	}

	provider := &removeAdjacencyProvider{
		statusDB:       statusDB,
		installedPorts: statusDB.Installed(),
		requested:      requested,
	}
	return graphs.TopologicalSortProvider(pspecs, provider)
}

// BinaryCache looks up already-built binary packages for the export
// planner. A miss means the port has to be built before export.
type BinaryCache interface {
	GetBinaryControlFile(spec specs.PackageSpec) (*ports.BinaryControlFile, bool)
}

// exportAdjacencyProvider materializes export vertices, preferring built
// binary packages over source metadata.
type exportAdjacencyProvider struct {
	provider  ports.PortFileProvider
	cache     BinaryCache
	requested map[specs.PackageSpec]struct{}
}

func (p *exportAdjacencyProvider) LoadVertexData(spec specs.PackageSpec) (ExportAction, error) {
	requestType := AutoSelected
	if _, ok := p.requested[spec]; ok {
		requestType = UserRequested
	}

	if p.cache != nil {
		if bcf, ok := p.cache.GetBinaryControlFile(spec); ok {
			return ExportAction{
				Spec:        spec,
				Paragraph:   AnyParagraph{Binary: bcf},
				PlanType:    AlreadyBuilt,
				RequestType: requestType,
			}, nil
		}
	}

	if scf, ok := p.provider.GetControlFile(spec.Name); ok {
		return ExportAction{
			Spec:        spec,
			Paragraph:   AnyParagraph{Source: scf},
			PlanType:    PortAvailableButNotBuilt,
			RequestType: requestType,
		}, nil
	}

	return ExportAction{}, &NoSuchPackageError{Spec: spec}
}

func (p *exportAdjacencyProvider) AdjacencyList(action ExportAction) ([]specs.PackageSpec, error) {
	return action.Paragraph.Dependencies(action.Spec.Triplet)
}

func (p *exportAdjacencyProvider) FormatKey(spec specs.PackageSpec) string {
	return spec.String()
}

// CreateExportPlan orders the requested packages and their dependencies
// for export, dependencies first. statusDB is accepted for interface
// parity with the other planners; export ordering derives from package
// metadata alone.
func CreateExportPlan(provider ports.PortFileProvider, cache BinaryCache, pspecs []specs.PackageSpec, statusDB *status.StatusParagraphs) ([]ExportAction, error) {
	_ = statusDB

	requested := make(map[specs.PackageSpec]struct{}, len(pspecs))
	for _, spec := range pspecs {
		requested[spec] = struct{}{}
	}

	adjacency := &exportAdjacencyProvider{
		provider:  provider,
		cache:     cache,
		requested: requested,
	}
	return graphs.TopologicalSortProvider(pspecs, adjacency)
}
