// Package engine evaluates road descriptions written in a small Lisp.
// It wraps zygomys in a sandboxed environment and produces a Program
// listing the declared roads.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalWarning represents a non-fatal warning produced during evaluation,
// such as an unknown keyword argument.
type EvalWarning struct {
	Line    int
	Col     int
	Message string
	Road    string // road the warning belongs to, if any
}

// Engine wraps the zygomys interpreter for road evaluation.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
}

// NewEngine creates a new Engine instance.
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate takes Lisp source code and produces a new Program.
// Each call creates a fresh zygomys sandbox for deterministic evaluation.
//
// Return semantics:
//   - On success: returns program + nil errors + nil error
//   - On parse/eval failure: returns nil program + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*Program, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		p, evalErrs, err := e.evaluate(source)
		ch <- evalResult{program: p, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*Program, []EvalError, error) {
	// Empty source is a valid program that declares no roads.
	if strings.TrimSpace(source) == "" {
		return newProgram(), nil, nil
	}

	// Create a fresh sandboxed zygomys environment.
	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	prog := newProgram()
	registerBuiltins(env, prog)

	// Load and compile the preprocessed source into bytecode.
	err := env.LoadString(preprocessSource(source))
	if err != nil {
		evalErrs := parseZygomysError(err)
		return nil, evalErrs, nil
	}

	// Execute the compiled bytecode.
	_, err = env.Run()
	if err != nil {
		evalErrs := parseZygomysError(err)
		return nil, evalErrs, nil
	}

	return prog, nil, nil
}

// lineRE matches the "Error on line N: ..." wrapper zygomys puts around
// parse and runtime errors.
var lineRE = regexp.MustCompile(`(?i)error on line (\d+):\s*(.*)`)

// callRE matches the prefix zygomys adds to errors returned by builtins.
var callRE = regexp.MustCompile(`^Error calling '[^']*':\s*`)

// parseZygomysError converts a zygomys error into EvalError values, taking
// the line number from the wrapper when there is one.
func parseZygomysError(err error) []EvalError {
	e := EvalError{Message: strings.TrimSpace(err.Error())}
	if m := lineRE.FindStringSubmatch(e.Message); m != nil {
		e.Line, _ = strconv.Atoi(m[1])
		e.Message = strings.TrimSpace(m[2])
	}
	e.Message = callRE.ReplaceAllString(e.Message, "")
	return []EvalError{e}
}
