// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package region

import (
	"fmt"

	"github.com/momentics/shmbus/shmerr"
)

// Lookup scans the region's topic table for an exact name match and
// returns its handle. Topic count is small and lookup happens once at
// subscribe/publish setup, not on the hot path, so a linear scan is
// preferred over a hash index. Rejects on a magic/version mismatch
// independent of whether the caller already validated the region via
// Open, so the registry's contract holds no matter how it was reached.
func (r *Region) Lookup(name string) (TopicHandle, error) {
	if !r.CheckMagic() {
		return TopicHandle{}, fmt.Errorf("%w: %q", shmerr.ErrBadMagic, name)
	}
	count := r.TopicCount()
	for i := uint32(0); i < count; i++ {
		th := r.topicAt(i)
		if th.Name() == name {
			return th, nil
		}
	}
	return TopicHandle{}, fmt.Errorf("%w: %q", shmerr.ErrUnknownTopic, name)
}

// Topics returns the names of every topic declared in the region, in
// table order.
func (r *Region) Topics() []string {
	count := r.TopicCount()
	names := make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		names = append(names, r.topicAt(i).Name())
	}
	return names
}
