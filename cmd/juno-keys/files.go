package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	junokeys "github.com/junocash/juno-keys"
	"github.com/junocash/juno-keys/errorcodes"
	"github.com/junocash/juno-keys/seed"
	"github.com/lightningnetwork/lnd/fn/v2"
)

const (
	// secretFileMode is the permission of files holding a seed.
	secretFileMode = 0600

	// secretDirMode is the permission of directories created to hold
	// seed files.
	secretDirMode = 0700
)

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	if path == "" {
		return ""
	}

	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		var homeDir string
		u, err := user.Current()
		if err == nil {
			homeDir = u.HomeDir
		} else {
			homeDir = os.Getenv("HOME")
		}

		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but the variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}

// writeSecretFile writes data to path with owner-only permissions, creating
// the parent directory if needed. An existing file is only replaced when
// force is set.
func writeSecretFile(path string, data []byte, force bool) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, secretDirMode); err != nil {
			return ioError(fmt.Errorf("unable to create directory: "+
				"%w", err))
		}
	}

	if force {
		// Remove the old file so that the new one is created with
		// the right permissions.
		err := os.Remove(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return ioError(fmt.Errorf("unable to replace %v: %w",
				path, err))
		}

		if err := fn.WriteFileRemove(
			path, data, secretFileMode,
		); err != nil {
			return ioError(fmt.Errorf("unable to write %v: %w",
				path, err))
		}

		return nil
	}

	f, err := os.OpenFile(
		path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, secretFileMode,
	)
	if err != nil {
		return ioError(fmt.Errorf("unable to create %v: %w", path,
			err))
	}

	_, err = f.Write(data)
	if err1 := f.Close(); err1 != nil && err == nil {
		err = err1
	}
	if err != nil {
		_ = os.Remove(path)
		return ioError(fmt.Errorf("unable to write %v: %w", path, err))
	}

	return nil
}

// readSeedFile returns the trimmed base64 seed stored at path.
func readSeedFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", ioError(fmt.Errorf("unable to read seed file: %w",
			err))
	}
	defer seed.Zero(raw)

	seedB64 := strings.TrimSpace(string(raw))
	if seedB64 == "" {
		return "", &junokeys.KeysError{
			Code: errorcodes.ErrCodeSeedInvalid,
			Err:  fmt.Errorf("seed file %v is empty", path),
		}
	}

	return seedB64, nil
}
