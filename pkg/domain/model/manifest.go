package model

// BuildManifest is the content of .vercel/output/builds.json
type BuildManifest struct {
	Builds []BuildEntry `json:"builds"`
}

// BuildEntry is one build of the manifest
type BuildEntry struct {
	Use    string           `json:"use,omitempty"`
	Config *ProjectSettings `json:"config"`
}
