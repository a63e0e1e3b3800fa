package debian

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/solonode/solonode/pkg/constants"
	"github.com/solonode/solonode/pkg/utils"
)

// LoadKernelModules loads the given kernel modules and persists the list so
// they are reloaded at boot. Returns true when the persisted list changed.
func LoadKernelModules(modules ...string) (bool, error) {
	for _, module := range modules {
		log.WithField("module", module).Debug("Loading kernel module...")
		if out, err := utils.Exec.Run(true, "/sbin/modprobe", module); err != nil {
			return false, errors.Wrapf(err, "Error while loading module %s: %s", module, string(out))
		} else {
			log.Trace(string(out))
		}
	}

	content := strings.Join(modules, "\n") + "\n"
	existing, err := utils.FS.ReadFile(constants.ModulesLoadFile)
	if err == nil && string(existing) == content {
		log.Debug("Module load list already up to date")
		return false, nil
	}

	if err := utils.FS.WriteFile(constants.ModulesLoadFile, []byte(content), os.FileMode(0644)); err != nil {
		return false, errors.Wrapf(err, "Error while writing %s", constants.ModulesLoadFile)
	}
	return true, nil
}
