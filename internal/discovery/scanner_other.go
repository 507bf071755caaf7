//go:build !unix

package discovery

import "os"

const openDirFlags = os.O_RDONLY
