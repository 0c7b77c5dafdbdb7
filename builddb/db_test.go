package builddb

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/slchen/vcpkg/ports"
	"github.com/slchen/vcpkg/specs"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("OpenDB failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPutAndGetBinaryControlFile(t *testing.T) {
	db := openTestDB(t)

	spec := specs.NewPackageSpec("zlib", "x64-linux")
	bcf := &ports.BinaryControlFile{
		Core: ports.BinaryParagraph{
			Spec:    spec,
			Version: "1.2.11",
			Depends: []string{"base"},
		},
		Features: []ports.BinaryParagraph{
			{Spec: spec, Feature: "static", Depends: []string{"musl"}},
		},
	}

	if err := db.PutBinaryControlFile(bcf); err != nil {
		t.Fatalf("PutBinaryControlFile failed: %v", err)
	}

	got, ok := db.GetBinaryControlFile(spec)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.Core.Version != "1.2.11" {
		t.Errorf("unexpected version: %s", got.Core.Version)
	}
	if len(got.Features) != 1 || got.Features[0].Feature != "static" {
		t.Errorf("unexpected features: %+v", got.Features)
	}

	deps := got.AllDepends()
	if len(deps) != 2 || deps[0] != "musl" || deps[1] != "base" {
		t.Errorf("unexpected flattened depends: %v", deps)
	}
}

func TestGetBinaryControlFileMiss(t *testing.T) {
	db := openTestDB(t)

	if _, ok := db.GetBinaryControlFile(specs.NewPackageSpec("ghost", "x64-linux")); ok {
		t.Fatal("expected miss")
	}
}

func TestGetBinaryControlFileTripletScoped(t *testing.T) {
	db := openTestDB(t)

	linux := specs.NewPackageSpec("zlib", "x64-linux")
	if err := db.PutBinaryControlFile(&ports.BinaryControlFile{
		Core: ports.BinaryParagraph{Spec: linux, Version: "1.0"},
	}); err != nil {
		t.Fatalf("PutBinaryControlFile failed: %v", err)
	}

	if _, ok := db.GetBinaryControlFile(specs.NewPackageSpec("zlib", "x64-windows")); ok {
		t.Fatal("a build for another triplet must not hit")
	}
}

func TestPutBinaryControlFileValidation(t *testing.T) {
	db := openTestDB(t)

	err := db.PutBinaryControlFile(&ports.BinaryControlFile{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.Is(err, ErrEmptySpec) {
		t.Errorf("expected ErrEmptySpec, got: %v", err)
	}
}

func TestSaveAndGetRun(t *testing.T) {
	db := openTestDB(t)

	rec := &RunRecord{
		UUID:      "run-123",
		Command:   "install",
		Specs:     []string{"curl[ssl]:x64-linux"},
		Actions:   3,
		StartTime: time.Now(),
	}
	if err := db.SaveRun(rec); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	got, err := db.GetRun("run-123")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if got.Command != "install" || got.Actions != 3 {
		t.Errorf("unexpected record: %+v", got)
	}
}

func TestGetRunNotFound(t *testing.T) {
	db := openTestDB(t)

	_, err := db.GetRun("missing")
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got: %v", err)
	}
}

func TestSaveRunEmptyUUID(t *testing.T) {
	db := openTestDB(t)

	err := db.SaveRun(&RunRecord{})
	if !errors.Is(err, ErrEmptyUUID) {
		t.Fatalf("expected ErrEmptyUUID, got: %v", err)
	}
}

func TestStats(t *testing.T) {
	db := openTestDB(t)

	spec := specs.NewPackageSpec("zlib", "x64-linux")
	if err := db.PutBinaryControlFile(&ports.BinaryControlFile{
		Core: ports.BinaryParagraph{Spec: spec, Version: "1.0"},
	}); err != nil {
		t.Fatalf("PutBinaryControlFile failed: %v", err)
	}
	if err := db.SaveRun(&RunRecord{UUID: "r1", Command: "install"}); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	stats, err := db.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalBinaries != 1 || stats.TotalRuns != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
