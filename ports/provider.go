package ports

import (
	"os"
	"path/filepath"

	"github.com/slchen/vcpkg/log"
)

// PortFileProvider looks up port metadata by name. Implementations must
// return stable pointers: repeated lookups of the same name yield the same
// SourceControlFile for the provider's lifetime.
type PortFileProvider interface {
	// GetControlFile returns the port's metadata, or false when the port
	// is unknown. Parse failures surface as "not found"; the plan fails
	// later if the port turns out to be required.
	GetControlFile(name string) (*SourceControlFile, bool)
}

// MapProvider serves ports from a caller-supplied map. Pure lookup.
type MapProvider struct {
	ports map[string]*SourceControlFile
}

func NewMapProvider(ports map[string]*SourceControlFile) *MapProvider {
	return &MapProvider{ports: ports}
}

// GetControlFile implements PortFileProvider.
func (p *MapProvider) GetControlFile(name string) (*SourceControlFile, bool) {
	scf, ok := p.ports[name]
	return scf, ok
}

// PathsProvider serves ports from an on-disk port tree laid out as
// <root>/<name>/CONTROL. Parsed files are memoized for the provider's
// lifetime, so returned pointers stay stable across calls.
type PathsProvider struct {
	root   string
	cache  map[string]*SourceControlFile
	logger log.LibraryLogger
}

func NewPathsProvider(root string, logger log.LibraryLogger) *PathsProvider {
	if logger == nil {
		logger = log.NoOpLogger{}
	}
	return &PathsProvider{
		root:   root,
		cache:  make(map[string]*SourceControlFile),
		logger: logger,
	}
}

// GetControlFile implements PortFileProvider.
func (p *PathsProvider) GetControlFile(name string) (*SourceControlFile, bool) {
	if scf, ok := p.cache[name]; ok {
		return scf, true
	}

	controlPath := filepath.Join(p.root, name, "CONTROL")
	f, err := os.Open(controlPath)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	scf, err := ParseControl(f)
	if err != nil {
		p.logger.Warn("ignoring unparseable port %s: %v", name, err)
		return nil, false
	}
	if scf.Core.Name != name {
		p.logger.Warn("port directory %s declares Source %s; ignoring", name, scf.Core.Name)
		return nil, false
	}

	p.cache[name] = scf
	return scf, true
}
