package debian

import (
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/txn2/txeh"

	"github.com/solonode/solonode/pkg/utils"
)

// EnsureHostnameResolves pins the host's name to its outbound IP address in
// /etc/hosts so the kubeadm preflight name resolution check passes.
func EnsureHostnameResolves() error {
	hostname, err := os.Hostname()
	if err != nil {
		return errors.Wrap(err, "Error while getting hostname")
	}

	ip, err := utils.GetOutboundIP()
	if err != nil {
		return errors.Wrap(err, "Error while getting outbound IP")
	}

	hosts, err := txeh.NewHostsDefault()
	if err != nil {
		return errors.Wrap(err, "Error while loading hosts file")
	}

	if found, current, _ := hosts.HostAddressLookup(hostname, txeh.IPFamilyV4); found && current == ip.String() {
		return nil
	}

	log.WithFields(log.Fields{
		"hostname": hostname,
		"ip":       ip.String(),
	}).Info("Pinning hostname in hosts file...")
	hosts.AddHost(ip.String(), hostname)
	if err := hosts.Save(); err != nil {
		return errors.Wrap(err, "Error while saving hosts file")
	}
	return nil
}
