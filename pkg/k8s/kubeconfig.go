package k8s

import (
	"os"
	"os/user"
	"path"
	"strconv"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/solonode/solonode/pkg/constants"
	"github.com/solonode/solonode/pkg/utils"
)

// InstallUserKubeconfig copies the admin credentials generated by kubeadm
// into the given user's home directory and gives the user ownership of the
// whole ~/.kube tree.
func InstallUserKubeconfig(u *user.User) (string, error) {
	source, err := utils.FS.ReadFile(constants.AdminKubeconfigFile)
	if err != nil {
		return "", errors.Wrapf(err, "Error while reading %s", constants.AdminKubeconfigFile)
	}

	kubeDir := path.Join(u.HomeDir, ".kube")
	if err := utils.FS.MkdirAll(kubeDir, os.FileMode(0755)); err != nil {
		return "", errors.Wrapf(err, "Error while creating %s", kubeDir)
	}

	kubeconfigPath := path.Join(kubeDir, "config")
	if err := utils.FS.WriteFile(kubeconfigPath, source, os.FileMode(0600)); err != nil {
		return "", errors.Wrapf(err, "Error while writing %s", kubeconfigPath)
	}

	if err := chownTree(kubeDir, u); err != nil {
		return "", err
	}

	log.WithFields(log.Fields{
		"user": u.Username,
		"path": kubeconfigPath,
	}).Info("Installed cluster credentials")
	return kubeconfigPath, nil
}

// chownTree recursively changes ownership of the given directory to u.
func chownTree(dir string, u *user.User) error {
	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return errors.Wrapf(err, "Invalid uid %s", u.Uid)
	}
	gid, err := strconv.Atoi(u.Gid)
	if err != nil {
		return errors.Wrapf(err, "Invalid gid %s", u.Gid)
	}

	if err := utils.FS.Chown(dir, uid, gid); err != nil {
		return errors.Wrapf(err, "Error while changing ownership of %s", dir)
	}

	entries, err := utils.FS.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, "Error while reading %s", dir)
	}
	for _, entry := range entries {
		entryPath := path.Join(dir, entry.Name())
		if entry.IsDir() {
			if err := chownTree(entryPath, u); err != nil {
				return err
			}
		} else if err := utils.FS.Chown(entryPath, uid, gid); err != nil {
			return errors.Wrapf(err, "Error while changing ownership of %s", entryPath)
		}
	}
	return nil
}
