// Package command interprets whitespace-delimited command lines typed
// into the foreground's command buffer. Dispatch uses exact-prefix token
// matching via strings.Fields, never substring search, so "view
// stringsXYZ" is rejected rather than silently parsed as "view strings".
package command

import (
	"strconv"
	"strings"

	"github.com/screenager/disx/internal/elf"
	"github.com/screenager/disx/internal/emitter"
	"github.com/screenager/disx/internal/model"
	"github.com/screenager/disx/internal/pool"
)

// Action tells the foreground loop what to do after Dispatch returns.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionRefresh
)

// Cmd is a parsed command line.
type Cmd struct {
	Name string
	Args []string
}

// Parse tokenizes line on whitespace. An empty line parses to a Cmd with
// an empty Name.
func Parse(line string) Cmd {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Cmd{}
	}
	return Cmd{Name: fields[0], Args: fields[1:]}
}

// Deps bundles the collaborators Dispatch needs to act on "open".
type Deps struct {
	Pool    *pool.Pool
	Emitter **emitter.Context // replaced by "open"
	MinLen  int
}

// Dispatch interprets cmd against m, returning the resulting Action.
// Unrecognised commands set a status message and return ActionNone.
func Dispatch(cmd Cmd, m *model.Model, deps Deps) Action {
	switch cmd.Name {
	case "":
		return ActionNone
	case "quit":
		return ActionQuit
	case "refresh":
		m.ClearCommand()
		return ActionRefresh
	case "view":
		dispatchView(cmd.Args, m)
		return ActionNone
	case "goto":
		dispatchGoto(cmd.Args, m)
		return ActionNone
	case "open":
		dispatchOpen(cmd.Args, m, deps)
		return ActionNone
	default:
		m.SetStatus("unrecognised command: " + cmd.Name)
		return ActionNone
	}
}

func dispatchView(args []string, m *model.Model) {
	if len(args) != 1 {
		m.SetStatus("usage: view strings|instructions|symbols")
		return
	}
	switch args[0] {
	case "strings":
		m.SetView(model.ViewStrings)
	case "instructions":
		m.SetView(model.ViewInstructions)
	case "symbols":
		m.SetView(model.ViewSymbols)
	default:
		m.SetStatus("unrecognised view: " + args[0])
	}
}

func dispatchGoto(args []string, m *model.Model) {
	if len(args) != 1 {
		m.SetStatus("usage: goto <addr>")
		return
	}
	addr, err := parseAddr(args[0])
	if err != nil {
		m.SetStatus("invalid address: " + args[0])
		return
	}
	if _, err := m.Goto(addr); err != nil {
		m.SetStatus(err.Error())
	}
}

func parseAddr(s string) (uint64, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return strconv.ParseUint(s[2:], 16, 64)
	}
	return strconv.ParseUint(s, 10, 64)
}

func dispatchOpen(args []string, m *model.Model, deps Deps) {
	if len(args) != 1 {
		m.SetStatus("usage: open <path>")
		return
	}
	path := args[0]

	ctx, err := emitter.Load(path, elf.Tuple{})
	if err != nil {
		m.SetStatus("open failed: " + err.Error())
		return
	}
	ctx.Scan()

	m.Clear()
	*deps.Emitter = ctx

	if err := ctx.PostAll(deps.Pool, m.AddInstructions); err != nil {
		m.SetStatus("open failed: " + err.Error())
		return
	}
	minLen := deps.MinLen
	if minLen <= 0 {
		minLen = 4
	}
	m.AddStrings(ctx.ExtractStrings(minLen))
	m.AddSymbols(ctx.ExtractSymbols())

	m.SetSubtitle(path + " | " + ctx.Tuple.String())
	m.SetStatus("opened " + path)
}
