package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/screenager/disx/internal/command"
	"github.com/screenager/disx/internal/config"
	"github.com/screenager/disx/internal/emitter"
	"github.com/screenager/disx/internal/model"
	"github.com/screenager/disx/internal/pool"
	"github.com/screenager/disx/internal/tui"
	"github.com/screenager/disx/internal/watcher"
)

func main() {
	root := &cobra.Command{
		Use:   "disx",
		Short: "Terminal ELF disassembly explorer",
		Long:  "disx — interactive ELF disassembly, string, and symbol explorer for x86, x86-64, ARM, and ARM64 binaries.",
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "disx: %v\n", err)
		os.Exit(1)
	}

	var poolSize int
	var minStringLen int
	root.PersistentFlags().IntVar(&poolSize, "pool-size", cfg.PoolSize, "decode worker pool size")
	root.PersistentFlags().IntVar(&minStringLen, "min-string-len", cfg.MinStringLen, "minimum length of extracted strings")

	newDeps := func() (*pool.Pool, command.Deps, error) {
		p, err := pool.New(poolSize)
		if err != nil {
			return nil, command.Deps{}, err
		}
		var ctx *emitter.Context
		deps := command.Deps{Pool: p, Emitter: &ctx, MinLen: minStringLen}
		return p, deps, nil
	}

	// ---- disx open <path> ---------------------------------------------------
	root.AddCommand(&cobra.Command{
		Use:   "open <path>",
		Short: "Decode a binary once and print its instructions to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			p, deps, err := newDeps()
			if err != nil {
				return err
			}
			defer p.Destroy()

			m := model.New("disx", path)
			command.Dispatch(command.Parse("open "+path), m, deps)
			p.Drain()

			snap := m.Snapshot()
			if snap.Status != "" {
				fmt.Fprintln(os.Stderr, snap.Status)
			}
			for _, ins := range snap.Instructions {
				fmt.Println(ins.Display)
			}
			return nil
		},
	})

	// ---- disx tui [path] (default) ------------------------------------------
	tuiCmd := &cobra.Command{
		Use:   "tui [path]",
		Short: "Launch the interactive BubbleTea explorer",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runTUI(path, poolSize, minStringLen)
		},
	}
	root.AddCommand(tuiCmd)

	// ---- disx watch <path> ---------------------------------------------------
	root.AddCommand(&cobra.Command{
		Use:   "watch <path>",
		Short: "Launch the explorer and reload the binary whenever it changes on disk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(args[0], poolSize, minStringLen)
		},
	})

	root.RunE = func(cmd *cobra.Command, args []string) error {
		return tuiCmd.RunE(cmd, args)
	}
	root.Args = cobra.MaximumNArgs(1)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runTUI(path string, poolSize, minStringLen int) error {
	p, err := pool.New(poolSize)
	if err != nil {
		return err
	}
	defer p.Destroy()

	var ectx *emitter.Context
	deps := command.Deps{Pool: p, Emitter: &ectx, MinLen: minStringLen}
	m := model.New("disx", path)

	tm := tui.New(m, deps, path)
	program := tea.NewProgram(tm, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

func runWatch(path string, poolSize, minStringLen int) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p, err := pool.New(poolSize)
	if err != nil {
		return err
	}
	defer p.Destroy()

	var ectx *emitter.Context
	deps := command.Deps{Pool: p, Emitter: &ectx, MinLen: minStringLen}
	m := model.New("disx", path)

	tm := tui.New(m, deps, path)
	program := tea.NewProgram(tm, tea.WithAltScreen())

	w, err := watcher.New(path, func(string) {
		command.Dispatch(command.Parse("open "+path), m, deps)
		program.Send(refreshedMsg{})
	})
	if err != nil {
		return err
	}

	done := make(chan struct{})
	go w.Run(done)
	go func() {
		<-ctx.Done()
		close(done)
	}()

	_, err = program.Run()
	return err
}

// refreshedMsg is sent into the running program after a debounced file
// change so BubbleTea wakes up and redraws at once. The TUI has no case for
// it, so the header and status line are redrawn from the model while the
// view body is re-synced on the next tick.
type refreshedMsg struct{}
