package image

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/keyshard/forge/internal/paths"
	"github.com/keyshard/forge/internal/platform"
)

// Record of one assembly, written next to the build output.
//
// The build-file digest ties the tagged images back to the exact staged
// build that produced them; two assemblies from identical plans produce
// identical digests.
type Provenance struct {
	BuildID     string           `json:"build_id"`
	Image       string           `json:"image"`
	ExportImage string           `json:"export_image"`
	BuildFile   digest.Digest    `json:"build_file_digest"`
	Platform    ocispec.Platform `json:"platform"`
	BuildHost   ocispec.Platform `json:"build_host"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Builds the provenance record for a completed assembly.
func NewProvenance(buildID string, ref *Reference) (*Provenance, error) {
	raw, err := os.ReadFile(ref.BuildFile)
	if err != nil {
		return nil, fmt.Errorf("%w: reading build file: %v", ErrAssembly, err)
	}

	return &Provenance{
		BuildID:     buildID,
		Image:       ref.Image,
		ExportImage: ref.ExportImage,
		BuildFile:   digest.FromBytes(raw),
		Platform:    platform.OCITarget(),
		BuildHost:   platform.OCIHost(),
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// Writes the record as JSON.
func (p *Provenance) Write(path string) error {
	raw, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(raw, '\n'), paths.DefaultFileMode)
}
