//go:build !unix

package preflight

import "os"

func checkReadWrite(path string) error {
	f, err := os.CreateTemp(path, ".xspf2mp4-access-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
