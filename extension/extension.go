// Package extension holds the single interception point the path engine
// exposes to the rest of the tracer: the GUEST_PATH hook fired at the
// start of Translate, before canonicalization. It is kept as an explicit
// collaborator passed through the tracee context rather than process-wide
// ambient state, so tests can instantiate isolated engines.
package extension

// Event identifies which hook point fired. GuestPath is the only one the
// path engine defines; it exists as a named type so a future extension
// mechanism can add more without changing the Hook signature.
type Event int

const (
	GuestPath Event = iota
)

// Hook is called with the in-progress translation result buffer and the
// original fake_path. A negative return is an error kind to propagate; a
// positive return means the hook already produced a host path in result
// and canonicalization/binding substitution must be skipped; zero means
// "no opinion, continue normally".
type Hook func(event Event, result, fakePath string) (newResult string, status int, err error)

// Registry is an ordered list of hooks. Hooks run in registration order;
// the first one that returns non-zero status wins.
type Registry struct {
	hooks []Hook
}

// NewRegistry builds a registry from the given hooks, in order.
func NewRegistry(hooks ...Hook) *Registry {
	return &Registry{hooks: hooks}
}

// Add appends a hook to the registry.
func (r *Registry) Add(h Hook) {
	r.hooks = append(r.hooks, h)
}

// Notify runs every registered hook in order for event, short-circuiting
// on the first non-zero status or error. It returns status 0 and the
// input result unchanged if the registry is nil or empty.
func (r *Registry) Notify(event Event, result, fakePath string) (newResult string, status int, err error) {
	if r == nil {
		return result, 0, nil
	}
	for _, h := range r.hooks {
		newResult, status, err = h(event, result, fakePath)
		if err != nil {
			return result, -1, err
		}
		if status != 0 {
			return newResult, status, nil
		}
	}
	return result, 0, nil
}
