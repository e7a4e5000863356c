package palette

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
)

// Save writes pal to path as a RIFF PAL file. The file only appears once
// fully written.
func Save(path string, pal color.Palette) (err error) {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	outFile, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return fmt.Errorf("could not create temporary palette %q: %w", path, err)
	}
	defer func() {
		if err != nil {
			_ = outFile.Close()
			_ = os.Remove(outFile.Name())
		}
	}()

	if _, err = WriteTo(outFile, pal); err != nil {
		return err
	}
	if err = outFile.Close(); err != nil {
		return fmt.Errorf("could not close temporary palette %q: %w", path, err)
	}
	if err = os.Rename(outFile.Name(), path); err != nil {
		return fmt.Errorf("could not rename palette %q: %w", path, err)
	}
	return nil
}

// Load reads every palette stored in the RIFF PAL file at path.
func Load(path string) ([]color.Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open palette %q: %w", path, err)
	}
	defer f.Close()

	pals, err := ReadFrom(f)
	if err != nil {
		return pals, fmt.Errorf("could not read palette %q: %w", path, err)
	}
	return pals, nil
}
