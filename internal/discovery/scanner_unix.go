//go:build unix

package discovery

import (
	"os"

	"golang.org/x/sys/unix"
)

const openDirFlags = os.O_RDONLY | unix.O_DIRECTORY
