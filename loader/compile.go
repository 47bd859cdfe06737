package loader

import (
	"context"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/tmavro/edict/types"
)

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	if t, ok := tbl.RawGetString(key).(*lua.LTable); ok {
		return t
	}
	return nil
}

// toGoValue converts a Lua value to a Go value recursively. Whole numbers
// become int to keep component data round-trippable through the store.
func toGoValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case *lua.LNilType:
		return nil
	case lua.LString:
		return string(val)
	case *lua.LTable:
		if maxN := val.MaxN(); maxN > 0 {
			arr := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				arr = append(arr, toGoValue(val.RawGetInt(i)))
			}
			return arr
		}
		m := map[string]any{}
		val.ForEach(func(k, v lua.LValue) {
			if ks, ok := k.(lua.LString); ok {
				m[string(ks)] = toGoValue(v)
			}
		})
		return m
	default:
		return nil
	}
}

// goToLua converts component data back into Lua structures for law bodies.
func goToLua(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []any:
		tbl := L.NewTable()
		for _, item := range val {
			tbl.Append(goToLua(L, item))
		}
		return tbl
	case []string:
		tbl := L.NewTable()
		for _, item := range val {
			tbl.Append(lua.LString(item))
		}
		return tbl
	case map[string]any:
		tbl := L.NewTable()
		for k, item := range val {
			tbl.RawSetString(k, goToLua(L, item))
		}
		return tbl
	case map[string]bool:
		tbl := L.NewTable()
		for k, item := range val {
			tbl.RawSetString(k, lua.LBool(item))
		}
		return tbl
	default:
		return lua.LNil
	}
}

// tableToStrings converts an array-style Lua table to []string.
func tableToStrings(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// buildEntity creates an entity from its body table: display name, tags,
// and initial component data.
func buildEntity(pack *Pack, prettyID string, tbl *lua.LTable) error {
	e, err := pack.Store.CreateEntity(prettyID)
	if err != nil {
		return err
	}

	if name := getString(tbl, "name"); name != "" {
		if err := pack.Store.SetDisplayName(e, name); err != nil {
			return err
		}
	}

	for _, tag := range tableToStrings(getTable(tbl, "tags")) {
		if err := pack.Store.AddTag(e, tag); err != nil {
			return err
		}
	}

	var buildErr error
	if components := getTable(tbl, "components"); components != nil {
		components.ForEach(func(k, v lua.LValue) {
			if buildErr != nil {
				return
			}
			name, ok := k.(lua.LString)
			if !ok {
				return
			}
			data, ok := toGoValue(v).(map[string]any)
			if !ok {
				data = map[string]any{}
			}
			buildErr = pack.Store.SetComponent(e, string(name), data)
		})
	}
	return buildErr
}

// parseLayer maps a layer string from pack data to the closed enumeration.
func parseLayer(s string) (types.Layer, error) {
	switch s {
	case "core":
		return types.LayerCore, nil
	case "stdlib", "":
		return types.LayerStdLib, nil
	case "domain":
		return types.LayerDomain, nil
	case "instance":
		return types.LayerInstance, nil
	default:
		return 0, fmt.Errorf("unknown layer %q", s)
	}
}

// compileLaw converts a Law body table into a registry entry. The apply
// function is wrapped, not extracted: invoking the law calls back into the
// pack's VM.
func compileLaw(pack *Pack, name string, tbl *lua.LTable) (types.Law, error) {
	layer, err := parseLayer(getString(tbl, "layer"))
	if err != nil {
		return types.Law{}, err
	}

	intents := tableToStrings(getTable(tbl, "intents"))
	if len(intents) == 0 {
		return types.Law{}, fmt.Errorf("no intents declared")
	}

	var matchers []types.Matcher
	if mtbl := getTable(tbl, "matchers"); mtbl != nil {
		for i := 1; i <= mtbl.MaxN(); i++ {
			if m, ok := mtbl.RawGetInt(i).(*lua.LTable); ok {
				matchers = append(matchers, compileMatcher(m))
			}
		}
	}

	fn, ok := tbl.RawGetString("apply").(*lua.LFunction)
	if !ok {
		return types.Law{}, fmt.Errorf("apply is not a function")
	}

	return types.Law{
		Layer:    layer,
		Name:     name,
		Intents:  intents,
		Matchers: matchers,
		Apply:    pack.wrapApply(name, fn),
	}, nil
}

func compileMatcher(tbl *lua.LTable) types.Matcher {
	var m types.Matcher
	if actor := getTable(tbl, "actor"); actor != nil {
		c := compileConcern(actor)
		m.Actor = &c
	}
	if target := getTable(tbl, "target"); target != nil {
		c := compileConcern(target)
		m.Target = &c
	}
	if aux := getTable(tbl, "aux"); aux != nil {
		for i := 1; i <= aux.MaxN(); i++ {
			if ctbl, ok := aux.RawGetInt(i).(*lua.LTable); ok {
				m.Auxiliary = append(m.Auxiliary, compileConcern(ctbl))
			}
		}
	}
	return m
}

func compileConcern(tbl *lua.LTable) types.Concern {
	c := types.Concern{
		IDs:        tableToStrings(getTable(tbl, "ids")),
		Components: tableToStrings(getTable(tbl, "components")),
		Tags:       tableToStrings(getTable(tbl, "tags")),
	}
	if props := getTable(tbl, "props"); props != nil {
		props.ForEach(func(k, v lua.LValue) {
			if path, ok := k.(lua.LString); ok {
				c.Props = append(c.Props, types.PropMatch{Path: string(path), Value: toGoValue(v)})
			}
		})
	}
	return c
}

// wrapApply bridges a Lua law body into an ApplyFunc. Calls are strictly
// sequential (one VM, one intent at a time), matching the engine's
// concurrency contract.
func (p *Pack) wrapApply(lawName string, fn *lua.LFunction) types.ApplyFunc {
	return func(ctx context.Context, lc *types.LawContext) (types.Contribution, error) {
		L := p.vm
		if L == nil {
			return types.Contribution{}, fmt.Errorf("pack closed")
		}

		ctxTbl := L.NewTable()
		ctxTbl.RawSetString("actor", entityOrNil(lc.Actor))
		ctxTbl.RawSetString("target", entityOrNil(lc.Target))
		ctxTbl.RawSetString("aux", entityList(L, lc.Auxiliaries))
		ctxTbl.RawSetString("original_aux", entityList(L, lc.OriginalAuxiliaries))

		if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, ctxTbl); err != nil {
			return types.Contribution{}, fmt.Errorf("lua apply: %w", err)
		}
		ret := L.Get(-1)
		L.Pop(1)

		result, ok := ret.(*lua.LTable)
		if !ok {
			return types.Contribution{}, fmt.Errorf("apply returned %s, want a contribution table", ret.Type())
		}
		return compileContribution(result)
	}
}

func entityOrNil(e types.Entity) lua.LValue {
	if e == types.None {
		return lua.LNil
	}
	return lua.LNumber(e)
}

func entityList(L *lua.LState, entities []types.Entity) *lua.LTable {
	tbl := L.NewTable()
	for _, e := range entities {
		tbl.Append(lua.LNumber(e))
	}
	return tbl
}

// compileContribution converts a returned contribution table (built by the
// Pass/Complete/Reject helpers) back into Go.
func compileContribution(tbl *lua.LTable) (types.Contribution, error) {
	var c types.Contribution

	switch status := getString(tbl, "status"); status {
	case "pass":
		c.Status = types.StatusPass
	case "completed":
		c.Status = types.StatusCompleted
	case "rejected":
		c.Status = types.StatusRejected
	default:
		return c, fmt.Errorf("contribution has unknown status %q", status)
	}

	c.Narrations = tableToStrings(getTable(tbl, "narrate"))

	if muts := getTable(tbl, "mutations"); muts != nil {
		for i := 1; i <= muts.MaxN(); i++ {
			mtbl, ok := muts.RawGetInt(i).(*lua.LTable)
			if !ok {
				continue
			}
			op, err := compileMutation(mtbl)
			if err != nil {
				return c, err
			}
			c.Mutations = append(c.Mutations, op)
		}
	}

	if events := getTable(tbl, "events"); events != nil {
		for i := 1; i <= events.MaxN(); i++ {
			etbl, ok := events.RawGetInt(i).(*lua.LTable)
			if !ok {
				continue
			}
			ev := types.Event{Type: getString(etbl, "type")}
			if data, ok := toGoValue(etbl.RawGetString("data")).(map[string]any); ok {
				ev.Data = data
			}
			c.Events = append(c.Events, ev)
		}
	}

	return c, nil
}

func compileMutation(tbl *lua.LTable) (types.MutationOp, error) {
	entity := types.Entity(0)
	if n, ok := tbl.RawGetString("entity").(lua.LNumber); ok {
		entity = types.Entity(n)
	}
	component := getString(tbl, "component")

	var data map[string]any
	if d, ok := toGoValue(tbl.RawGetString("data")).(map[string]any); ok {
		data = d
	}

	switch op := getString(tbl, "op"); op {
	case "update":
		return types.Update(entity, component, data), nil
	case "set":
		return types.Set(entity, component, data), nil
	case "add":
		return types.Add(entity, component, data), nil
	case "remove":
		return types.Remove(entity, component), nil
	case "destroy":
		return types.Destroy(entity), nil
	default:
		return types.MutationOp{}, fmt.Errorf("unknown mutation op %q", op)
	}
}
