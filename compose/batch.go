package compose

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/alecthomas/kong"

	"paleatra/imgio"
	"paleatra/parallel"
)

type BatchCmd struct {
	Scan   string `help:"Source folder to scan" default:"."`
	Dest   string `help:"Destination folder for framed pictures. Relative to scan dir if not absolute." default:"framed"`
	Format string `help:"Output format of framed pictures. 'same' keeps the source format when it can be written, png otherwise." enum:"same,gif,jpeg,png,bmp,tiff" default:"png"`
	Jobs   int    `help:"Pictures framed concurrently, 0 for one per CPU. With more than one job, each picture is counted on a single goroutine." default:"0"`

	Options `embed:""`
}

func (c *BatchCmd) Validate(kctx *kong.Context) error {
	scanDir, err := filepath.Abs(c.Scan)
	var info os.FileInfo
	if err == nil {
		if info, err = os.Stat(scanDir); err == nil && !info.IsDir() {
			err = fmt.Errorf("not a directory")
		}
	}
	if err != nil {
		return fmt.Errorf("invalid scan path %q: %w", c.Scan, err)
	}
	c.Scan = scanDir

	if !filepath.IsAbs(c.Dest) {
		c.Dest = filepath.Join(scanDir, c.Dest)
	}

	if c.Jobs < 0 {
		return fmt.Errorf("invalid number of jobs: %d", c.Jobs)
	}

	return c.Options.validate()
}

func (c *BatchCmd) Run() error {
	if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
	}

	files, err := os.ReadDir(c.Scan)
	if err != nil {
		return fmt.Errorf("unable to read folder %q: %w", c.Scan, err)
	}

	opts := c.imageOptions()
	pool := parallel.Start(c.Jobs)
	var processedCount, errCount atomic.Uint64
	for _, file := range files {
		if file.IsDir() || strings.HasPrefix(file.Name(), ".") {
			continue
		}

		pool.Do(func() {
			filePath := filepath.Join(c.Scan, file.Name())
			logger := slog.Default().With("file", filePath)

			img, format, err := imgio.Decode(filePath)
			if err != nil {
				errCount.Add(1)
				logger.Error("could not decode image", "error", err)
				return
			}

			dest := filepath.Join(c.Dest, c.destName(file.Name(), format))
			if _, err = opts.frameImage(logger, img, dest); err != nil {
				errCount.Add(1)
				logger.Error("could not frame image", "error", err)
				return
			}
			processedCount.Add(1)
		})
	}
	pool.Wait()

	processed := processedCount.Load()
	errors := errCount.Load()
	slog.Info("stats", "processed", processed, "errors", errors,
		"total", processed+errors)

	if errors > 0 {
		return fmt.Errorf("error processing %d files", errors)
	}
	return nil
}

// imageOptions returns the options each picture is framed with. Colors are
// counted on one goroutine unless a single job runs.
func (c *BatchCmd) imageOptions() Options {
	opts := c.Options
	if c.Jobs != 1 && opts.Workers != 1 {
		slog.Debug("counting colors sequentially per picture", "jobs", c.Jobs, "workers", opts.Workers)
		opts.Workers = 1
	}
	return opts
}

// destName swaps the extension of srcName for the output format.
func (c *BatchCmd) destName(srcName, srcFormat string) string {
	outType := c.Format
	if outType == "same" {
		outType = srcFormat
		if _, err := imgio.Format("." + outType); err != nil {
			outType = "png"
		}
	}

	oldExt := filepath.Ext(srcName)
	return fmt.Sprintf("%s.%s", srcName[:len(srcName)-len(oldExt)], outType)
}
