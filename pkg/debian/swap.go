package debian

import (
	"os"
	"strings"

	"github.com/bitfield/script"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/solonode/solonode/pkg/constants"
	"github.com/solonode/solonode/pkg/utils"
)

// DisableSwap turns off swap at runtime and comments out swap entries in the
// mount table so the setting survives reboots. Returns true when the mount
// table was modified.
func DisableSwap() (bool, error) {
	log.Info("Disabling swap...")
	if out, err := utils.Exec.Run(true, "/sbin/swapoff", "-a"); err != nil {
		return false, errors.Wrapf(err, "Error while turning off swap: %s", string(out))
	} else {
		log.Trace(string(out))
	}

	return CommentSwapEntries(constants.FstabFile)
}

// CommentSwapEntries comments out the swap lines of the given fstab file.
func CommentSwapEntries(fstabPath string) (bool, error) {
	exists, err := utils.FS.Exists(fstabPath)
	if err != nil {
		return false, errors.Wrapf(err, "Error while checking %s", fstabPath)
	}
	if !exists {
		return false, nil
	}

	lines, err := utils.FS.Pipe(fstabPath).Slice()
	if err != nil {
		return false, errors.Wrapf(err, "Error while reading %s", fstabPath)
	}

	changed := false
	for i, line := range lines {
		if isSwapEntry(line) {
			lines[i] = "#" + line
			changed = true
		}
	}
	if !changed {
		return false, nil
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if _, err := utils.FS.WritePipe(fstabPath, script.Slice(lines), flags, os.FileMode(0644)); err != nil {
		return false, errors.Wrapf(err, "Error while writing %s", fstabPath)
	}
	return true, nil
}

func isSwapEntry(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return false
	}
	fields := strings.Fields(trimmed)
	return len(fields) >= 3 && fields[2] == "swap"
}
