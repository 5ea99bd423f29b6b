package level

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// levelListFile is the install-dir registry the game menu reads level names
// from.
const levelListFile = "hwae_levels.txt"

// Register appends the level name to the install directory's level list. The
// list is snapshotted to a .bak file on every call, even when the name is
// already registered, so a later rollback restores the state of this run and
// never an older backup. Already-registered names are left alone.
func Register(installDir, name string) error {
	path := filepath.Join(installDir, levelListFile)

	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: read level list: %v", ErrAssetWrite, err)
	}

	if err := os.WriteFile(path+".bak", existing, 0o644); err != nil {
		return fmt.Errorf("%w: back up level list: %v", ErrAssetWrite, err)
	}

	for _, line := range strings.Split(string(existing), "\n") {
		if strings.TrimSpace(line) == name {
			return nil
		}
	}

	updated := string(existing)
	if updated != "" && !strings.HasSuffix(updated, "\n") {
		updated += "\n"
	}
	updated += name + "\n"
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("%w: update level list: %v", ErrAssetWrite, err)
	}
	return nil
}

// Unregister removes the level name from the list, restoring from the backup
// when one exists. Used to roll back after a failed asset write.
func Unregister(installDir, name string) error {
	path := filepath.Join(installDir, levelListFile)

	if bak, err := os.ReadFile(path + ".bak"); err == nil {
		if err := os.WriteFile(path, bak, 0o644); err != nil {
			return fmt.Errorf("%w: restore level list: %v", ErrAssetWrite, err)
		}
		return nil
	}

	existing, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: read level list: %v", ErrAssetWrite, err)
	}
	var kept []string
	for _, line := range strings.Split(strings.TrimRight(string(existing), "\n"), "\n") {
		if strings.TrimSpace(line) != name {
			kept = append(kept, line)
		}
	}
	out := strings.Join(kept, "\n")
	if out != "" {
		out += "\n"
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("%w: update level list: %v", ErrAssetWrite, err)
	}
	return nil
}
