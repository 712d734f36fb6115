package proposal

import "sync"

// defaultDismissalCapacity bounds the session-lifetime suppression set so a
// long-running desktop session cannot grow it without limit.
const defaultDismissalCapacity = 1000

// dismissals is the session-scoped suppression set keyed by
// (topicID, pastSubjectID). It lives and dies with the owning service
// instance; it is never persisted.
type dismissals struct {
	mu    sync.Mutex
	keys  map[string]struct{}
	order []string
	cap   int
}

func newDismissals(capacity int) *dismissals {
	if capacity <= 0 {
		capacity = defaultDismissalCapacity
	}
	return &dismissals{
		keys: make(map[string]struct{}, capacity),
		cap:  capacity,
	}
}

func dismissalKey(topicID, pastSubjectID string) string {
	return topicID + "|" + pastSubjectID
}

// add records a suppression. At capacity the oldest key is dropped first.
func (d *dismissals) add(topicID, pastSubjectID string) {
	key := dismissalKey(topicID, pastSubjectID)

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.keys[key]; ok {
		return
	}
	if len(d.order) >= d.cap {
		oldest := d.order[0]
		d.order = d.order[1:]
		delete(d.keys, oldest)
	}
	d.keys[key] = struct{}{}
	d.order = append(d.order, key)
}

func (d *dismissals) contains(topicID, pastSubjectID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.keys[dismissalKey(topicID, pastSubjectID)]
	return ok
}

func (d *dismissals) len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.keys)
}
