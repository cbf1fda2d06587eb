package platform

import "os"

// remoteSessionVars are set by screen and sshd for the processes they spawn.
var remoteSessionVars = []string{"STY", "SSH_CLIENT", "SSH_TTY"}

// RemoteSession reports whether the process was started from a terminal
// multiplexer or a remote shell and which variable gave it away.
func RemoteSession() (string, bool) {
	return remoteSession(os.LookupEnv)
}

func remoteSession(lookup func(string) (string, bool)) (string, bool) {
	for _, name := range remoteSessionVars {
		if _, ok := lookup(name); ok {
			return name, true
		}
	}
	return "", false
}
