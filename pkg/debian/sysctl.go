package debian

import (
	"os"

	"github.com/lithammer/dedent"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/solonode/solonode/pkg/constants"
	"github.com/solonode/solonode/pkg/utils"
)

var kubernetesSysctlSettings = dedent.Dedent(`
	net.bridge.bridge-nf-call-iptables  = 1
	net.bridge.bridge-nf-call-ip6tables = 1
	net.ipv4.ip_forward                 = 1
	`)[1:]

// WriteSysctlSettings persists the bridge and forwarding sysctls required by
// kubeadm. Returns true when the file content changed.
func WriteSysctlSettings() (bool, error) {
	existing, err := utils.FS.ReadFile(constants.SysctlFile)
	if err == nil && string(existing) == kubernetesSysctlSettings {
		log.Debug("Sysctl settings already up to date")
		return false, nil
	}

	log.WithField("file", constants.SysctlFile).Info("Writing sysctl settings...")
	if err := utils.FS.WriteFile(constants.SysctlFile, []byte(kubernetesSysctlSettings), os.FileMode(0644)); err != nil {
		return false, errors.Wrapf(err, "Error while writing %s", constants.SysctlFile)
	}
	return true, nil
}

// ApplySysctlSettings reloads all sysctl configuration files.
func ApplySysctlSettings() error {
	if out, err := utils.Exec.Run(true, "/sbin/sysctl", "--system"); err != nil {
		return errors.Wrapf(err, "Error while applying sysctl settings: %s", string(out))
	} else {
		log.Trace(string(out))
	}
	return nil
}
