package main

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/appendlog/pageblob/pkg/pageblob/appendlog"
	"github.com/appendlog/pageblob/pkg/pageblob/clock"
	"github.com/appendlog/pageblob/pkg/pageblob/config"
	"github.com/appendlog/pageblob/pkg/pageblob/localstore"
	"github.com/appendlog/pageblob/pkg/pageblob/pagebloberrors"
	"github.com/appendlog/pageblob/pkg/pageblob/store"
	"github.com/appendlog/pageblob/pkg/pageblob/util"
	"github.com/appendlog/pageblob/pkg/program"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// pagelogctl is a small operational tool for poking at a page-blob
// append log from the command line: initializing one, appending lines
// read from stdin, replaying its frames to stdout, and forcing a
// corrupted or still-open log back into a writable state.
//
// Usage: pagelogctl <settings.jsonnet> <container-dir> <blob-name> <command> [args...]
//
//	init [--create]
//	append
//	replay
//	recover [backup-blob-name]
func main() {
	program.RunMain(func(ctx context.Context, siblingsGroup, dependenciesGroup program.Group) error {
		if len(os.Args) < 5 {
			return status.Error(codes.InvalidArgument,
				"Usage: pagelogctl settings.jsonnet container-dir blob-name <init|append|replay|recover> [args...]")
		}
		settingsPath, containerDir, blobName, command := os.Args[1], os.Args[2], os.Args[3], os.Args[4]
		extraArgs := os.Args[5:]

		settings, err := config.LoadFromFile(settingsPath)
		if err != nil {
			return util.StatusWrapf(err, "Failed to load settings from %s", settingsPath)
		}

		blockStore := store.NewMetricsBlockStore(
			store.NewRetryingBlockStore(
				localstore.NewFileBlockStore(containerDir, blobName),
				clock.SystemClock,
				util.DefaultErrorLogger),
			blobName)

		switch command {
		case "init":
			return runInit(ctx, blockStore, settings, extraArgs)
		case "append":
			return runWithHeartbeat(ctx, func(ctx context.Context) error {
				return runAppend(ctx, blockStore, settings)
			})
		case "replay":
			return runWithHeartbeat(ctx, func(ctx context.Context) error {
				return runReplay(ctx, blockStore, settings)
			})
		case "recover":
			return runRecover(ctx, blockStore, settings, containerDir, extraArgs)
		default:
			return status.Errorf(codes.InvalidArgument, "Unknown command %q", command)
		}
	})
}

// runWithHeartbeat runs work alongside a background goroutine that
// prints a liveness heartbeat every few seconds, so a long replay or
// append against a slow backing store doesn't look hung. Both
// goroutines share a cancellation context via errgroup; once work
// returns, the heartbeat is cancelled and joined.
func runWithHeartbeat(ctx context.Context, work func(context.Context) error) error {
	group, groupCtx := errgroup.WithContext(ctx)
	workDone := make(chan struct{})

	group.Go(func() error {
		defer close(workDone)
		return work(groupCtx)
	})
	group.Go(func() error {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-workDone:
				return nil
			case <-groupCtx.Done():
				return nil
			case <-ticker.C:
				fmt.Fprintln(os.Stderr, "pagelogctl: still working...")
			}
		}
	})
	return group.Wait()
}

func runInit(ctx context.Context, blockStore store.BlockStore, settings config.Settings, extraArgs []string) error {
	autoCreate := false
	for _, arg := range extraArgs {
		if arg == "--create" {
			autoCreate = true
		}
	}
	handle := appendlog.New(blockStore, settings)
	if err := handle.Init(ctx, autoCreate); err != nil {
		return util.StatusWrap(err, "Failed to initialize append log")
	}
	fmt.Fprintf(os.Stdout, "Initialized in state %s\n", handle.StateName())
	return nil
}

func runAppend(ctx context.Context, blockStore store.BlockStore, settings config.Settings) error {
	handle := appendlog.New(blockStore, settings)
	if err := handle.Init(ctx, true); err != nil {
		return util.StatusWrap(err, "Failed to initialize append log")
	}
	// Read past the existing records so the handle reaches the
	// END_MARKER and enters Writing.
	for handle.StateName() == "Reading" {
		if _, _, err := handle.Next(ctx); err != nil {
			return util.StatusWrap(err, "Failed to read existing records")
		}
	}
	if handle.StateName() != "Writing" {
		return status.Errorf(codes.FailedPrecondition, "Append log is in state %s, not Writing; run recover first", handle.StateName())
	}

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), int(settings.MaxPayloadSizeProtection))
	var payloads [][]byte
	for scanner.Scan() {
		line := scanner.Text()
		payloads = append(payloads, []byte(line))
	}
	if err := scanner.Err(); err != nil {
		return util.StatusWrap(err, "Failed to read payloads from stdin")
	}
	if len(payloads) == 0 {
		return nil
	}
	if err := handle.Append(ctx, payloads); err != nil {
		return util.StatusWrap(err, "Failed to append payloads")
	}
	fmt.Fprintf(os.Stdout, "Appended %d record(s), blob position now %d\n", len(payloads), handle.GetBlobPosition())
	return nil
}

func runReplay(ctx context.Context, blockStore store.BlockStore, settings config.Settings) error {
	handle := appendlog.New(blockStore, settings)
	if err := handle.Init(ctx, false); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil
		}
		return util.StatusWrap(err, "Failed to initialize append log")
	}

	for handle.StateName() == "Reading" {
		payload, endOfStream, err := handle.Next(ctx)
		if err != nil {
			if diag, ok := pagebloberrors.AsCorrupted(err); ok {
				return status.Errorf(codes.DataLoss, "Log is corrupted at position %d: %s", diag.Pos, diag.Message)
			}
			return util.StatusWrap(err, "Failed to read next record")
		}
		if endOfStream {
			break
		}
		if err := writeReplayedRecord(os.Stdout, payload); err != nil {
			return util.StatusWrap(err, "Failed to write record to stdout")
		}
	}
	return nil
}

// writeReplayedRecord writes one length-prefixed record to w, so that
// a replayed binary payload containing embedded newlines can still be
// told apart from the next record.
func writeReplayedRecord(w io.Writer, payload []byte) error {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

func runRecover(ctx context.Context, blockStore store.BlockStore, settings config.Settings, containerDir string, extraArgs []string) error {
	handle := appendlog.New(blockStore, settings)
	if err := handle.Init(ctx, false); err != nil {
		return util.StatusWrap(err, "Failed to initialize append log")
	}

	// Drive Reading to completion (or until it trips into Corrupted)
	// so ForceToWrite has something well-defined to act on.
	for handle.StateName() == "Reading" {
		if _, endOfStream, err := handle.Next(ctx); err != nil {
			break
		} else if endOfStream {
			break
		}
	}

	var backup store.BlockStore
	if len(extraArgs) > 0 {
		backup = store.NewRetryingBlockStore(
			localstore.NewFileBlockStore(containerDir, extraArgs[0]),
			clock.SystemClock,
			util.DefaultErrorLogger)
		if err := backup.CreateContainerIfAbsent(ctx); err != nil {
			return util.StatusWrap(err, "Failed to prepare backup container")
		}
	}

	if err := handle.ForceToWrite(ctx, backup); err != nil {
		return util.StatusWrap(err, "Failed to force append log back to Writing")
	}
	fmt.Fprintf(os.Stdout, "Recovered into state %s\n", handle.StateName())
	return nil
}
