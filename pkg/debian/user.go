package debian

import (
	"os"
	"os/user"

	"github.com/pkg/errors"
)

// InvokingUser resolves the non-root user that invoked the provisioner
// through sudo. Falls back to root when SUDO_USER is not set or cannot be
// resolved.
func InvokingUser() (*user.User, error) {
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" && sudoUser != "root" {
		u, err := user.Lookup(sudoUser)
		if err == nil {
			return u, nil
		}
	}

	u, err := user.Lookup("root")
	if err != nil {
		return nil, errors.Wrap(err, "Error while resolving root user")
	}
	return u, nil
}
