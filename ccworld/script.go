package ccworld

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// compiledScript is a cached, pre-compiled scripted hook,
// grounded on this project's scripted-FSM runtime: the source compiles
// once per Collider.SetScripted* call, then Run() re-executes the same
// bytecode every invocation with fresh globals bound in.
type compiledScript struct {
	source   string
	compiled *tengo.Compiled
	phase    string // "pre" or "post", selects which dispatch tail was appended
}

const preSolveDispatchScript = `
__result = pre_solve(self, other, contact)
`

const postSolveDispatchScript = `
post_solve(self, other, contact)
`

func compileHookScript(source, phase, funcName, dispatchTail string) (*compiledScript, error) {
	src := source + "\n" + dispatchTail
	script := tengo.NewScript([]byte(src))
	_ = script.Add("self", map[string]any{})
	_ = script.Add("other", map[string]any{})
	_ = script.Add("contact", map[string]any{})
	if phase == "pre" {
		_ = script.Add("__result", false)
	}
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScriptCompile, err)
	}
	if !compiled.IsDefined(funcName) {
		return nil, fmt.Errorf("%w: source must define %s(self, other, contact)", ErrScriptCompile, funcName)
	}
	return &compiledScript{source: source, compiled: compiled, phase: phase}, nil
}

// SetScriptedPreSolve compiles source as a pre-solve hook.
// source must define a pre_solve(self, other, contact) function; its
// return value (false disables the contact) is combined with any Go
// PreSolve hook's decision. Returns ErrScriptCompile on a syntax error or
// a missing pre_solve function.
func (c *Collider) SetScriptedPreSolve(source string) error {
	cs, err := compileHookScript(source, "pre", "pre_solve", preSolveDispatchScript)
	if err != nil {
		return err
	}
	c.scriptedPreSolve = cs
	return nil
}

// SetScriptedPostSolve compiles source as a post-solve hook.
// source must define a post_solve(self, other, contact) function, run
// after the physics response has been computed.
func (c *Collider) SetScriptedPostSolve(source string) error {
	cs, err := compileHookScript(source, "post", "post_solve", postSolveDispatchScript)
	if err != nil {
		return err
	}
	c.scriptedPostSolve = cs
	return nil
}

func colliderScriptMap(c *Collider) *tengo.Map {
	return &tengo.Map{Value: map[string]tengo.Object{
		"id":    &tengo.String{Value: c.id},
		"class": &tengo.String{Value: c.class},
	}}
}

func contactScriptMap(contact *Contact) *tengo.Map {
	normal := contact.Normal()
	return &tengo.Map{Value: map[string]tengo.Object{
		"normal_x":    &tengo.Float{Value: normal.X},
		"normal_y":    &tengo.Float{Value: normal.Y},
		"friction":    &tengo.Float{Value: contact.Friction()},
		"restitution": &tengo.Float{Value: contact.Restitution()},
		"touching":    boolObject(contact.Touching()),
		"set_enabled": &tengo.UserFunction{Name: "set_enabled", Value: func(args ...tengo.Object) (tengo.Object, error) {
			enabled := true
			if len(args) > 0 {
				if b, ok := args[0].(*tengo.Bool); ok {
					enabled = !b.IsFalsy()
				}
			}
			contact.SetEnabled(enabled)
			return tengo.TrueValue, nil
		}},
	}}
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

// runPreSolveScript re-executes a compiled pre-solve hook with self/other/
// contact rebound, returning the hook's allow/disable decision.
func runPreSolveScript(cs *compiledScript, self, other *Collider, contact *Contact) (bool, error) {
	if cs == nil || cs.compiled == nil {
		return true, nil
	}
	if err := cs.compiled.Set("self", colliderScriptMap(self)); err != nil {
		return true, err
	}
	if err := cs.compiled.Set("other", colliderScriptMap(other)); err != nil {
		return true, err
	}
	if err := cs.compiled.Set("contact", contactScriptMap(contact)); err != nil {
		return true, err
	}
	if err := cs.compiled.Run(); err != nil {
		return true, fmt.Errorf("%w: %v", ErrScriptRuntime, err)
	}
	result := cs.compiled.Get("__result")
	if result == nil {
		return true, nil
	}
	return !result.IsFalsy(), nil
}

// runPostSolveScript re-executes a compiled post-solve hook.
func runPostSolveScript(cs *compiledScript, self, other *Collider, contact *Contact) error {
	if cs == nil || cs.compiled == nil {
		return nil
	}
	if err := cs.compiled.Set("self", colliderScriptMap(self)); err != nil {
		return err
	}
	if err := cs.compiled.Set("other", colliderScriptMap(other)); err != nil {
		return err
	}
	if err := cs.compiled.Set("contact", contactScriptMap(contact)); err != nil {
		return err
	}
	if err := cs.compiled.Run(); err != nil {
		return fmt.Errorf("%w: %v", ErrScriptRuntime, err)
	}
	return nil
}
