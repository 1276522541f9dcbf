package scripting

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dop251/goja"

	"github.com/MJE43/game-arena/internal/arena"
)

// Codec converts a game's views to plain values for scripts and decodes
// whatever decide() returns into the game's action type.
type Codec[V, A any] struct {
	EncodeView   func(V) (any, error)
	DecodeAction func(any) (A, error)
}

// JSONView encodes a view through its JSON form, so scripts see the same
// field names as API clients.
func JSONView[V any](view V) (any, error) {
	data, err := json.Marshal(view)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Program is a compiled script shared by all actors built from it.
type Program struct {
	name    string
	program *goja.Program
}

// Compile parses source in strict mode. Runtime errors, such as a missing
// decide function, surface from NewActor.
func Compile(name, source string) (*Program, error) {
	p, err := goja.Compile(name, source, true)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	return &Program{name: name, program: p}, nil
}

func (p *Program) Name() string { return p.name }

// Options bound a script's resource use.
type Options struct {
	InitTimeout time.Duration
	CallTimeout time.Duration
	MaxLogs     int
}

func (o Options) withDefaults() Options {
	if o.InitTimeout <= 0 {
		o.InitTimeout = defaultInitTimeout
	}
	if o.CallTimeout <= 0 {
		o.CallTimeout = defaultCallTimeout
	}
	if o.MaxLogs <= 0 {
		o.MaxLogs = defaultMaxLogs
	}
	return o
}

// Actor is an arena actor whose decisions come from a script's
// decide(view) function. Each actor owns its runtime, so script globals act
// as private memory that clones do not share.
type Actor[V, A any] struct {
	program *Program
	codec   Codec[V, A]
	opts    Options
	vm      *VM
	initErr error
}

// NewActor runs the program's top level in a fresh runtime and checks that
// it defines decide.
func NewActor[V, A any](p *Program, codec Codec[V, A], opts Options) (*Actor[V, A], error) {
	a := newActor(p, codec, opts.withDefaults())
	if a.initErr != nil {
		return nil, a.initErr
	}
	return a, nil
}

func newActor[V, A any](p *Program, codec Codec[V, A], opts Options) *Actor[V, A] {
	a := &Actor[V, A]{program: p, codec: codec, opts: opts, vm: newVM(opts.MaxLogs)}
	if err := a.vm.run(p.program, opts.InitTimeout); err != nil {
		a.initErr = err
	} else if _, ok := a.vm.function("decide"); !ok {
		a.initErr = fmt.Errorf("%s: %w", p.name, ErrNoDecide)
	}
	return a
}

func (a *Actor[V, A]) Decide(view V) (A, error) {
	var zero A
	if a.initErr != nil {
		return zero, a.initErr
	}
	encoded, err := a.codec.EncodeView(view)
	if err != nil {
		return zero, fmt.Errorf("encode view: %w", err)
	}
	result, err := a.vm.call("decide", a.opts.CallTimeout, encoded)
	if err != nil {
		return zero, err
	}
	action, err := a.codec.DecodeAction(result.Export())
	if err != nil {
		return zero, fmt.Errorf("decode action: %w", err)
	}
	return action, nil
}

// Clone starts a fresh runtime from the compiled program. A clone that
// fails to initialise reports the failure from its first Decide.
func (a *Actor[V, A]) Clone() arena.Actor[V, A] {
	return newActor(a.program, a.codec, a.opts)
}

func (a *Actor[V, A]) Name() string { return a.program.name }

// Logs returns what this actor's script has logged so far.
func (a *Actor[V, A]) Logs() []LogEntry {
	return a.vm.Logs()
}
