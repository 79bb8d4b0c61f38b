package actions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/majormguarde-bit/megre-guard-db/helper"
	"github.com/majormguarde-bit/megre-guard-db/logger"
	"github.com/majormguarde-bit/megre-guard-db/rdbms"
	"github.com/majormguarde-bit/megre-guard-db/transfer"
)

// ErrTransferFailed is returned by RunTransfer when the run ends with an error event.
var ErrTransferFailed = errors.New("transfer failed")

type TransferConfig struct {
	Request                   transfer.Request
	RequestFile               string        `errorTxt:"file" mandatory:"no"`
	OutputFormat              string        `errorTxt:"output" mandatory:"no"` // print the request as yaml or json instead of running it.
	Save                      bool          `errorTxt:"save" mandatory:"no"`
	Settings                  SettingsSaver `errorTxt:"settings" mandatory:"no"`
	Engine                    transfer.Config
	Out                       io.Writer `errorTxt:"output writer" mandatory:"yes"`
	HumanReadable             bool      `errorTxt:"human readable output" mandatory:"no"`
	LogLevel                  string    `errorTxt:"log level" mandatory:"yes"`
	StackDumpOnPanic          bool      `errorTxt:"stack dump" mandatory:"no"`
	StatsDumpFrequencySeconds int       `errorTxt:"stats dump frequency" mandatory:"no"`
}

// RunTransfer runs one transfer in the foreground, writing its events to cfg.Out.
// SIGINT or SIGTERM cancel the run, which rolls back and ends with an error event.
func RunTransfer(cfg *TransferConfig) error {
	if cfg == nil {
		return fmt.Errorf("nil pointer for transfer config supplied")
	}
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	if cfg.RequestFile != "" {
		r, err := LoadRequestFromFile(cfg.RequestFile)
		if err != nil {
			return err
		}
		cfg.Request = r
	}
	if cfg.OutputFormat != "" {
		return WriteRequest(cfg.Out, cfg.Request, cfg.OutputFormat)
	}
	log := logger.NewLogger("mgdb", cfg.LogLevel, cfg.StackDumpOnPanic)
	if cfg.Save && cfg.Settings != nil {
		if err := cfg.Settings.SaveLastTransfer(cfg.Request.FormValues()); err != nil {
			log.Warn("unable to save settings: ", err)
		}
	}
	cfg.Engine.Log = log
	cfg.Engine.StatsDumpFrequencySeconds = cfg.StatsDumpFrequencySeconds
	e := transfer.NewEngine(cfg.Engine, &rdbms.Provisioner{Log: log, Credentials: cfg.Engine.Credentials})
	// Handle interrupts.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	chanQuit := make(chan os.Signal, 2)
	signal.Notify(chanQuit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(chanQuit)
	go func() {
		select {
		case <-chanQuit:
			log.Warn("User abort. Stopping transfer...")
			cancel()
		case <-ctx.Done():
		}
	}()
	return writeEvents(cfg.Out, e.Run(ctx, cfg.Request), cfg.HumanReadable)
}

// writeEvents drains events to w and returns ErrTransferFailed if the last event is an error.
func writeEvents(w io.Writer, events <-chan transfer.Event, human bool) error {
	var last transfer.Event
	var writeErr error
	for ev := range events {
		last = ev
		if writeErr != nil { // keep draining so the run can finish.
			continue
		}
		if human {
			writeErr = writeHumanEvent(w, ev)
		} else {
			writeErr = transfer.WriteEvent(w, ev)
		}
	}
	if writeErr != nil {
		return writeErr
	}
	if last.Status == transfer.StatusError {
		return ErrTransferFailed
	}
	return nil
}
