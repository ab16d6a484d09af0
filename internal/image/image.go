// Package image parses container image reference strings into a
// repository+tag pair.
//
// Parsing is delegated to github.com/distribution/reference, the canonical
// implementation of Docker image-name grammar, so convoy accepts exactly
// the references that a registry would (short names, registry-qualified
// names, ports in registry hosts, and so on). Digest-pinned references are
// accepted too; the digest simply does not participate in the
// repository+tag view this package exposes.
package image

import (
	"fmt"

	"github.com/distribution/reference"
)

// defaultTag is applied when a reference carries no explicit tag,
// mirroring Docker's own behavior.
const defaultTag = "latest"

// Image is a parsed container image reference.
//
// Like every other model value in convoy, Image is an immutable value
// object: two Images are equal iff repository and tag are equal.
type Image struct {
	// Repository is the familiar repository name, e.g. "clusterhq/postgres"
	// or "registry.example.com:5000/app".
	Repository string `json:"repository"`

	// Tag selects the image version within the repository. Defaults to
	// "latest" when the reference named none.
	Tag string `json:"tag"`
}

// Parse validates and parses an image reference string.
//
// The repository portion is normalized to its familiar form (the form a
// user would type), so "docker.io/library/nginx:latest" and "nginx" parse
// to the same Image value.
func Parse(name string) (Image, error) {
	named, err := reference.ParseNormalizedNamed(name)
	if err != nil {
		return Image{}, fmt.Errorf("invalid image name %q: %w", name, err)
	}

	tag := defaultTag
	if tagged, ok := named.(reference.Tagged); ok {
		tag = tagged.Tag()
	}

	return Image{
		Repository: reference.FamiliarName(named),
		Tag:        tag,
	}, nil
}

// String returns the "repository:tag" form of the reference.
func (i Image) String() string {
	if i.Tag == "" {
		return i.Repository
	}
	return fmt.Sprintf("%s:%s", i.Repository, i.Tag)
}
