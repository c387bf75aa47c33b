package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/veegee/lsdisk/internal/config"
	"github.com/veegee/lsdisk/internal/device"
	"github.com/veegee/lsdisk/internal/diskby"
	"github.com/veegee/lsdisk/internal/lsblk"
	"github.com/veegee/lsdisk/internal/output"
)

// lister runs one enumerate -> normalize -> render pass
type lister struct {
	cfg    *config.Config
	client *lsblk.Client
	links  *diskby.Source
	// input is a saved lsblk document; when set lsblk is not run
	input string
}

func newLister(cfg *config.Config, input string) *lister {
	return &lister{
		cfg:    cfg,
		client: lsblk.NewClient(cfg.LsblkPath),
		links:  diskby.NewSource(),
		input:  input,
	}
}

func (l *lister) run(ctx context.Context, w io.Writer) error {
	cols := l.cfg.ColumnSet()

	raws, err := l.enumerate(ctx, cols)
	if err != nil {
		return err
	}

	if l.cfg.Lenient {
		log.Debug("Skipping column validation")
	} else if err := lsblk.Validate(raws, cols); err != nil {
		return err
	}

	devices := device.FlattenAndSort(raws)
	if l.cfg.Dedupe {
		before := len(devices)
		devices = device.Dedupe(devices)
		log.Debugf("Dedupe removed %d aliased devices", before-len(devices))
	}
	for _, d := range devices {
		log.WithField("name", d.Name).Debug(d.String())
	}

	if l.cfg.VerifyLinks {
		for _, m := range l.links.Verify(devices) {
			if m.Target == "" {
				log.Warnf("%s: %s does not exist", m.Device, m.WWNPath)
			} else {
				log.Warnf("%s: %s points to %s", m.Device, m.WWNPath, m.Target)
			}
		}
	}

	return output.Render(w, devices, output.Options{
		Columns: cols,
		Style:   l.cfg.Style(),
		Header:  l.cfg.Header,
	})
}

// enumerate reads devices from the input file or from lsblk
func (l *lister) enumerate(ctx context.Context, cols lsblk.ColumnSet) ([]lsblk.RawDevice, error) {
	if l.input != "" {
		data, err := os.ReadFile(l.input)
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		log.WithField("path", l.input).Debug("Decoding saved lsblk output")
		return lsblk.Decode(data)
	}

	if l.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(l.cfg.Timeout))
		defer cancel()
	}
	return l.client.List(ctx, lsblk.Options{Columns: cols, Bytes: l.cfg.Bytes})
}
