package image

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestNewProvenance(t *testing.T) {
	ref := &Reference{
		Image:       "keyshard:dev",
		ExportImage: "keyshard:dev-build-artifacts",
		BuildFile:   tempBuildFile(t),
	}

	p, err := NewProvenance("b2f6aa11", ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := p.BuildFile.Validate(); err != nil {
		t.Fatalf("build file digest invalid: %v", err)
	}
	if p.Platform.OS != "linux" || p.Platform.Architecture != "amd64" {
		t.Fatalf("platform = %s/%s, want linux/amd64", p.Platform.OS, p.Platform.Architecture)
	}

	// Identical plans produce identical digests.
	q, err := NewProvenance("other", ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.BuildFile != q.BuildFile {
		t.Fatalf("digest differs for identical build files: %s vs %s", p.BuildFile, q.BuildFile)
	}
}

func TestProvenanceWrite(t *testing.T) {
	ref := &Reference{Image: "keyshard:dev", ExportImage: "keyshard:dev-build-artifacts", BuildFile: tempBuildFile(t)}
	p, err := NewProvenance("b2f6aa11", ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "build.json")
	if err := p.Write(path); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded Provenance
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("written provenance is not valid JSON: %v", err)
	}
	if decoded.Image != p.Image || decoded.BuildFile != p.BuildFile {
		t.Fatalf("round trip mismatch: %+v vs %+v", decoded, p)
	}
}
