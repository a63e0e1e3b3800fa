package debian

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/solonode/solonode/pkg/utils"
)

const systemctl = "/usr/bin/systemctl"

// EnableService enables and starts the given systemd unit.
func EnableService(serviceName string) error {
	log.WithField("service", serviceName).Info("Enabling service...")
	if out, err := utils.Exec.Run(true, systemctl, "enable", "--now", serviceName); err != nil {
		return errors.Wrapf(err, "Error while enabling service %s: %s", serviceName, string(out))
	} else {
		log.Trace(string(out))
	}
	return nil
}

// RestartService restarts the given systemd unit.
func RestartService(serviceName string) error {
	log.WithField("service", serviceName).Info("Restarting service...")
	if out, err := utils.Exec.Run(true, systemctl, "restart", serviceName); err != nil {
		return errors.Wrapf(err, "Error while restarting service %s: %s", serviceName, string(out))
	} else {
		log.Trace(string(out))
	}
	return nil
}
