package composer

import (
	"fmt"
	"sort"

	"trackmux/internal/config"
	"trackmux/internal/services"
)

func builtinProfiles() []Profile {
	return []Profile{
		{
			ID:          ProfileMuxAV,
			Description: "Mux the video stream of one track with the audio stream of another",
			Inputs:      2,
			Audio:       true,
			Args:        []string{"-map", "0:v", "-map", "1:a", "-c", "copy"},
		},
		{
			ID:          ProfileVideoOnly,
			Description: "Copy the video stream and drop audio",
			Inputs:      1,
			Audio:       false,
			Args:        []string{"-map", "0:v", "-an", "-c", "copy"},
		},
	}
}

// Registry holds the encoding profiles known to a composer. It is read-only
// after construction.
type Registry struct {
	profiles map[string]Profile
}

// NewRegistry seeds a registry with the built-in profiles and the provided
// config-declared profiles. Declared profiles replace built-ins with the same ID.
func NewRegistry(declared []config.Profile) *Registry {
	r := &Registry{profiles: make(map[string]Profile)}
	for _, profile := range builtinProfiles() {
		r.profiles[profile.ID] = profile
	}
	for _, p := range declared {
		r.profiles[p.ID] = Profile{
			ID:          p.ID,
			Description: p.Description,
			Inputs:      p.Inputs,
			Audio:       p.Audio,
			Suffix:      p.Suffix,
			Args:        append([]string(nil), p.Args...),
		}
	}
	return r
}

// Get returns the profile registered under id.
func (r *Registry) Get(id string) (Profile, error) {
	profile, ok := r.profiles[id]
	if !ok {
		return Profile{}, services.Wrap(services.ErrNotFound, "composer", "profile", fmt.Sprintf("no profile %q", id), ErrProfileNotFound)
	}
	return profile, nil
}

// List returns all profiles sorted by ID.
func (r *Registry) List() []Profile {
	out := make([]Profile, 0, len(r.profiles))
	for _, profile := range r.profiles {
		out = append(out, profile)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
