package ziplockctl

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/ejangi/ziplock-sub002/internal/fileprovider"
	"github.com/ejangi/ziplock-sub002/internal/manager"
)

// writeFile writes data to path with owner-only permissions.
func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o600)
}

func nowUnix() int64 {
	return time.Now().Unix()
}

func newManager() *manager.Manager {
	return manager.New(fileprovider.NewDesktopProvider())
}

// promptPassword reads a password from the terminal without echoing it.
func promptPassword(label string) (string, error) {
	fmt.Printf("%s: ", label)
	b, err := term.ReadPassword(int(0))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

// openForSession opens path under an interactively prompted password
// and returns a Manager ready for a single command's operations. The
// caller is responsible for saving and closing.
func openForSession(path string) (*manager.Manager, error) {
	pw, err := promptPassword("Master password")
	if err != nil {
		return nil, err
	}
	m := newManager()
	if err := m.OpenRepository(path, pw); err != nil {
		return nil, err
	}
	return m, nil
}
