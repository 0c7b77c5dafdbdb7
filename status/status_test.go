package status

import (
	"strings"
	"testing"

	"github.com/slchen/vcpkg/specs"
)

const sampleStatus = `Package: zlib
Version: 1.2.11
Architecture: x64-linux
Status: install ok installed

Package: curl
Version: 7.68.0
Architecture: x64-linux
Depends: zlib, openssl
Status: install ok installed

Package: curl
Feature: ssl
Architecture: x64-linux
Depends: openssl
Status: install ok installed

Package: stale
Version: 0.1
Architecture: x64-linux
Status: purge ok not-installed
`

func TestParseStatusFile(t *testing.T) {
	db, err := Parse(strings.NewReader(sampleStatus))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	installed := db.Installed()
	if len(installed) != 3 {
		t.Fatalf("expected 3 installed rows, got %d", len(installed))
	}

	curl := installed[1]
	if curl.Spec.Name != "curl" || curl.Spec.Triplet != "x64-linux" {
		t.Errorf("unexpected spec: %v", curl.Spec)
	}
	if len(curl.Depends) != 2 || curl.Depends[0] != "zlib" || curl.Depends[1] != "openssl" {
		t.Errorf("unexpected depends: %v", curl.Depends)
	}

	feature := installed[2]
	if feature.Feature != "ssl" {
		t.Errorf("expected ssl feature row, got %q", feature.Feature)
	}
	if feature.DisplayName() != "curl[ssl]:x64-linux" {
		t.Errorf("unexpected display name: %s", feature.DisplayName())
	}
}

func TestFindInstalled(t *testing.T) {
	db, err := Parse(strings.NewReader(sampleStatus))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	spec := specs.NewPackageSpec("curl", "x64-linux")
	row := db.FindInstalled(spec)
	if row == nil {
		t.Fatal("expected to find curl core row")
	}
	if row.Feature != "" {
		t.Errorf("FindInstalled must return the core row, got feature %q", row.Feature)
	}

	if db.FindInstalled(specs.NewPackageSpec("stale", "x64-linux")) != nil {
		t.Error("not-installed rows must not be found")
	}
	if db.FindInstalled(specs.NewPackageSpec("curl", "x64-windows")) != nil {
		t.Error("triplet must participate in the lookup")
	}
}

func TestParseStatusErrors(t *testing.T) {
	cases := []string{
		"Version: 1.0\nArchitecture: x64-linux\n",
		"Package: zlib\n",
		"garbage line\n",
	}
	for _, input := range cases {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Errorf("expected parse error for %q", input)
		}
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	db, err := Load("/nonexistent/status")
	if err != nil {
		t.Fatalf("missing status file should not error: %v", err)
	}
	if len(db.Installed()) != 0 {
		t.Error("expected empty snapshot")
	}
}
