// Package scripting runs user-supplied JavaScript strategies as arena
// actors inside a sandboxed goja runtime.
package scripting

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"
)

var (
	ErrNoDecide = errors.New("decide() function is not defined")
	ErrTimeout  = errors.New("script execution timeout")
)

// LogEntry represents a single log message from the script.
type LogEntry struct {
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
}

// VM wraps a goja runtime with sandbox restrictions and a bounded log.
type VM struct {
	runtime *goja.Runtime
	mu      sync.Mutex

	logs    []LogEntry
	logsMu  sync.Mutex
	maxLogs int
}

const (
	defaultInitTimeout = 2 * time.Second
	defaultCallTimeout = 1 * time.Second
	defaultMaxLogs     = 200
)

func newVM(maxLogs int) *VM {
	vm := &VM{
		runtime: goja.New(),
		maxLogs: maxLogs,
	}
	vm.injectGlobals()
	return vm
}

// injectGlobals registers log and console.log and removes escape hatches.
func (vm *VM) injectGlobals() {
	vm.runtime.Set("log", func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		vm.appendLog(strings.Join(parts, " "))
		return goja.Undefined()
	})

	console := vm.runtime.NewObject()
	console.Set("log", vm.runtime.Get("log"))
	vm.runtime.Set("console", console)

	vm.runtime.Set("require", goja.Undefined())
	vm.runtime.Set("fetch", goja.Undefined())
	vm.runtime.Set("XMLHttpRequest", goja.Undefined())
	vm.runtime.Set("eval", goja.Undefined())
	vm.runtime.Set("Function", goja.Undefined())
}

func (vm *VM) appendLog(msg string) {
	vm.logsMu.Lock()
	defer vm.logsMu.Unlock()
	if vm.maxLogs <= 0 {
		return
	}
	if len(vm.logs) >= vm.maxLogs {
		vm.logs = vm.logs[1:]
	}
	vm.logs = append(vm.logs, LogEntry{Time: time.Now(), Message: msg})
}

// run executes a compiled program's top level, defining its functions.
func (vm *VM) run(p *goja.Program, timeout time.Duration) error {
	return vm.runWithTimeout(timeout, func() error {
		if _, err := vm.runtime.RunProgram(p); err != nil {
			return fmt.Errorf("script execution error: %w", err)
		}
		return nil
	})
}

// call invokes a global function defined by the script.
func (vm *VM) call(name string, timeout time.Duration, args ...any) (goja.Value, error) {
	var out goja.Value
	err := vm.runWithTimeout(timeout, func() error {
		callable, ok := vm.function(name)
		if !ok {
			return fmt.Errorf("%s: %w", name, ErrNoDecide)
		}
		values := make([]goja.Value, len(args))
		for i, a := range args {
			values[i] = vm.runtime.ToValue(a)
		}
		result, err := callable(goja.Undefined(), values...)
		if err != nil {
			return fmt.Errorf("%s() error: %w", name, err)
		}
		out = result
		return nil
	})
	return out, err
}

func (vm *VM) function(name string) (goja.Callable, bool) {
	fn := vm.runtime.Get(name)
	if fn == nil || goja.IsUndefined(fn) || goja.IsNull(fn) {
		return nil, false
	}
	return goja.AssertFunction(fn)
}

// Logs returns a copy of the current log buffer.
func (vm *VM) Logs() []LogEntry {
	vm.logsMu.Lock()
	defer vm.logsMu.Unlock()
	out := make([]LogEntry, len(vm.logs))
	copy(out, vm.logs)
	return out
}

// runWithTimeout interrupts the runtime if fn outlives timeout. The runtime
// is reset afterwards so the next call starts clean.
func (vm *VM) runWithTimeout(timeout time.Duration, fn func() error) error {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	var (
		doneMu sync.Mutex
		done   bool
	)
	timer := time.AfterFunc(timeout, func() {
		doneMu.Lock()
		defer doneMu.Unlock()
		if !done {
			vm.runtime.Interrupt(ErrTimeout)
		}
	})
	err := fn()
	doneMu.Lock()
	done = true
	doneMu.Unlock()
	timer.Stop()
	vm.runtime.ClearInterrupt()

	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		return fmt.Errorf("%w after %v", ErrTimeout, timeout)
	}
	return err
}
