// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package region

import (
	"fmt"

	"github.com/momentics/shmbus/shmerr"
)

// Open attaches to an existing region created by Build, by POSIX path or
// Windows section name depending on platform. It returns the attached
// Region and a closer that unmaps the view without destroying the
// backing object, and rejects regions whose header is not yet valid: a
// reader must never observe a partially initialized header.
func Open(name string) (*Region, func() error, error) {
	r, closer, err := openRegion(name)
	if err != nil {
		return nil, nil, err
	}
	if !r.CheckMagic() {
		closer()
		return nil, nil, fmt.Errorf("%w: %s", shmerr.ErrBadMagic, name)
	}
	return r, closer, nil
}
