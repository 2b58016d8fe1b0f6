package pipeline

// Registry lists the participants of a run for sibling discovery.
type Registry struct {
	participants []Participant
	byName       map[string]Participant
}

func newRegistry(participants []Participant) *Registry {
	r := &Registry{
		participants: participants,
		byName:       make(map[string]Participant, len(participants)),
	}
	for _, p := range participants {
		r.byName[p.Name()] = p
	}
	return r
}

// Participants returns all participants in registration order.
func (r *Registry) Participants() []Participant {
	out := make([]Participant, len(r.participants))
	copy(out, r.participants)
	return out
}

// Lookup returns the participant registered under name.
func (r *Registry) Lookup(name string) (Participant, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Find returns the first participant, in registration order, that
// implements T.
func Find[T any](r *Registry) (T, bool) {
	for _, p := range r.participants {
		if t, ok := p.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// FindAll returns every participant that implements T.
func FindAll[T any](r *Registry) []T {
	var out []T
	for _, p := range r.participants {
		if t, ok := p.(T); ok {
			out = append(out, t)
		}
	}
	return out
}
