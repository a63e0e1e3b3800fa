// Package debian wraps the Debian-family host operations performed by the
// provisioner: APT, kernel modules, sysctl, swap, systemd units and the
// upstream Kubernetes package repository.
package debian

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/solonode/solonode/pkg/utils"
)

const aptGet = "/usr/bin/apt-get"

// UpdateIndex refreshes the APT package index.
func UpdateIndex() error {
	log.Info("Updating package index...")
	if out, err := utils.Exec.Run(true, aptGet, "update"); err != nil {
		return errors.Wrapf(err, "Error while updating package index: %s", string(out))
	} else {
		log.Trace(string(out))
	}
	return nil
}

// InstallPackages installs the given packages non-interactively.
func InstallPackages(packages ...string) error {
	log.WithField("packages", packages).Info("Installing packages...")
	arguments := append([]string{"install", "-y"}, packages...)
	if out, err := utils.Exec.Run(true, aptGet, arguments...); err != nil {
		return errors.Wrapf(err, "Error while installing packages: %s", string(out))
	} else {
		log.Trace(string(out))
	}
	return nil
}

// HoldPackages pins the given packages against future upgrades.
func HoldPackages(packages ...string) error {
	log.WithField("packages", packages).Info("Holding packages...")
	arguments := append([]string{"hold"}, packages...)
	if out, err := utils.Exec.Run(true, "/usr/bin/apt-mark", arguments...); err != nil {
		return errors.Wrapf(err, "Error while holding packages: %s", string(out))
	} else {
		log.Trace(string(out))
	}
	return nil
}
