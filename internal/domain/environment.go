package domain

// Vars is a key/value store used for templating probe paths and queries.
type Vars map[string]string

// Environment defines variables for a target deployment (dev/stg/prod).
// Secrets may be merged on top by infrastructure implementations.
type Environment struct {
	Name string
	Vars Vars
}

// EnvironmentRef is a lightweight reference to an environment file on disk.
type EnvironmentRef struct {
	Name string
	Path string
}

// Merge layers the given var sets left to right (later wins) into a new map.
func Merge(layers ...Vars) Vars {
	out := Vars{}
	for _, l := range layers {
		for k, v := range l {
			out[k] = v
		}
	}
	return out
}
