// Package console is the line-oriented command surface. Local input and
// commands arriving from peers both end up in Console.Execute.
package console

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/exp/maps"
)

var ErrUnknownCommand = errors.New("unknown command")

const DefaultHistory = 512

// Args is what a handler receives. Line is the text after the command name.
type Args struct {
	Name   string
	Line   string
	Remote bool
}

// Find looks up a key=value argument on the command line.
func (a Args) Find(key string) (Pair, error) {
	p, _, err := FindArg(a.Line, key)
	return p, err
}

type Handler func(args Args) error

type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	}
	return "info"
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Line is one printed console line.
type Line struct {
	Seq   int       `json:"seq"`
	Level Level     `json:"level"`
	Text  string    `json:"text"`
	At    time.Time `json:"at"`
}

type command struct {
	name    string
	help    string
	handler Handler
}

type Console struct {
	mu       sync.Mutex
	commands map[string]command
	lines    []Line
	seq      int
	limit    int
	out      io.Writer
	log      zerolog.Logger
}

// New returns a console that mirrors printed lines to out, which may be nil.
func New(out io.Writer, log zerolog.Logger) *Console {
	c := &Console{
		commands: make(map[string]command),
		limit:    DefaultHistory,
		out:      out,
		log:      log,
	}
	c.Register("help", "List commands, or describe one with name=<command>", c.help)
	return c
}

// Register adds a command. Names are matched without regard to case; a later
// registration replaces an earlier one.
func (c *Console) Register(name, help string, handler Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commands[strings.ToUpper(name)] = command{name: name, help: help, handler: handler}
}

// Names lists the registered commands in sorted order.
func (c *Console) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := maps.Keys(c.commands)
	slices.Sort(keys)
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, c.commands[k].name)
	}
	return names
}

// Execute runs a command line typed on this machine.
func (c *Console) Execute(line string) error {
	return c.execute(line, false)
}

// ExecuteRemote runs a command line received from a peer. Handlers see
// Args.Remote set whatever the line itself contains.
func (c *Console) ExecuteRemote(line string) error {
	return c.execute(line, true)
}

func (c *Console) execute(line string, remote bool) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	name, rest, _ := strings.Cut(line, " ")

	c.mu.Lock()
	cmd, ok := c.commands[strings.ToUpper(name)]
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	args := Args{Name: cmd.name, Line: strings.TrimSpace(rest), Remote: remote}
	c.log.Debug().Str("command", cmd.name).Bool("remote", args.Remote).Str("args", args.Line).Msg("execute")
	return cmd.handler(args)
}

func (c *Console) Printf(format string, a ...interface{}) {
	c.print(LevelInfo, fmt.Sprintf(format, a...))
}

func (c *Console) Warnf(format string, a ...interface{}) {
	c.print(LevelWarning, fmt.Sprintf(format, a...))
}

func (c *Console) Errorf(format string, a ...interface{}) {
	c.print(LevelError, fmt.Sprintf(format, a...))
}

func (c *Console) print(level Level, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	c.lines = append(c.lines, Line{Seq: c.seq, Level: level, Text: text, At: time.Now()})
	if len(c.lines) > c.limit {
		c.lines = append(c.lines[:0], c.lines[len(c.lines)-c.limit:]...)
	}
	if c.out != nil {
		switch level {
		case LevelWarning:
			fmt.Fprintf(c.out, "[warn] %s\n", text)
		case LevelError:
			fmt.Fprintf(c.out, "[error] %s\n", text)
		default:
			fmt.Fprintln(c.out, text)
		}
	}
}

// Mark returns the sequence number of the last printed line.
func (c *Console) Mark() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Since returns the retained lines printed after mark.
func (c *Console) Since(mark int) []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Line, 0)
	for _, l := range c.lines {
		if l.Seq > mark {
			out = append(out, l)
		}
	}
	return out
}

func (c *Console) help(args Args) error {
	if p, err := args.Find("name"); err == nil {
		c.mu.Lock()
		cmd, ok := c.commands[p.Value]
		c.mu.Unlock()
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownCommand, p.Value)
		}
		c.Printf("%s: %s", cmd.name, cmd.help)
		return nil
	}
	for _, name := range c.Names() {
		c.mu.Lock()
		cmd := c.commands[strings.ToUpper(name)]
		c.mu.Unlock()
		c.Printf("  %-16s %s", cmd.name, cmd.help)
	}
	return nil
}
