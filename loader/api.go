package loader

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/tmavro/edict/types"
)

// registerAPI installs the pack-authoring globals: world metadata, component
// and entity constructors, the Law constructor, matcher/concern helpers,
// contribution and mutation constructors, and the read-only world query
// table.
func registerAPI(L *lua.LState, pack *Pack) {
	registerWorldBlock(L, pack)
	registerComponent(L, pack)
	registerEntity(L, pack)
	registerLaw(L, pack)
	registerPassThroughs(L)
	registerContributions(L)
	registerMutations(L)
	registerQueries(L, pack)
}

func registerWorldBlock(L *lua.LState, pack *Pack) {
	// World { title = "...", author = "...", version = "...", intro = "..." }
	L.SetGlobal("World", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		pack.Title = getString(tbl, "title")
		pack.Author = getString(tbl, "author")
		pack.Version = getString(tbl, "version")
		pack.Intro = getString(tbl, "intro")
		return 0
	}))
}

func registerComponent(L *lua.LState, pack *Pack) {
	// Component "Name" — registers a component type immediately.
	L.SetGlobal("Component", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		if err := pack.Store.DefineComponent(name); err != nil {
			L.RaiseError("Component %q: %s", name, err)
		}
		return 0
	}))
}

func registerEntity(L *lua.LState, pack *Pack) {
	// Entity "pretty_id" { name = "...", tags = {...}, components = {...} }
	// Curried: Entity("id") returns a function that takes the body table.
	L.SetGlobal("Entity", L.NewFunction(func(L *lua.LState) int {
		prettyID := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			if err := buildEntity(pack, prettyID, tbl); err != nil {
				L.RaiseError("Entity %q: %s", prettyID, err)
			}
			return 0
		}))
		return 1
	}))
}

func registerLaw(L *lua.LState, pack *Pack) {
	// Law "name" { layer = "...", intents = {...}, matchers = {...},
	//              apply = function(ctx) ... end }
	L.SetGlobal("Law", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			law, err := compileLaw(pack, name, tbl)
			if err != nil {
				L.RaiseError("Law %q: %s", name, err)
			}
			pack.Registry.Ratify(law)
			return 0
		}))
		return 1
	}))
}

func registerPassThroughs(L *lua.LState) {
	// Matcher { actor = ..., target = ..., aux = {...} } and
	// Concern { ids = ..., components = ..., props = ..., tags = ... }
	// just return their table; compilation reads them later.
	for _, name := range []string{"Matcher", "Concern"} {
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			L.Push(tbl)
			return 1
		}))
	}
}

func registerContributions(L *lua.LState) {
	// Pass { narrate = {...}, mutations = {...}, events = {...} }
	// Complete { ... } / Reject {} — tag the table with its status.
	statuses := map[string]string{
		"Pass":     "pass",
		"Complete": "completed",
		"Reject":   "rejected",
	}
	for global, status := range statuses {
		status := status
		L.SetGlobal(global, L.NewFunction(func(L *lua.LState) int {
			tbl := L.OptTable(1, L.NewTable())
			tbl.RawSetString("status", lua.LString(status))
			L.Push(tbl)
			return 1
		}))
	}
}

func registerMutations(L *lua.LState) {
	// Update(entity, "Component", { field = value }) — and friends.
	dataOps := map[string]string{
		"Update": "update",
		"Set":    "set",
		"Add":    "add",
	}
	for global, op := range dataOps {
		op := op
		L.SetGlobal(global, L.NewFunction(func(L *lua.LState) int {
			entity := L.CheckNumber(1)
			component := L.CheckString(2)
			data := L.CheckTable(3)
			tbl := L.NewTable()
			tbl.RawSetString("op", lua.LString(op))
			tbl.RawSetString("entity", entity)
			tbl.RawSetString("component", lua.LString(component))
			tbl.RawSetString("data", data)
			L.Push(tbl)
			return 1
		}))
	}

	// Remove(entity, "Component")
	L.SetGlobal("Remove", L.NewFunction(func(L *lua.LState) int {
		entity := L.CheckNumber(1)
		component := L.CheckString(2)
		tbl := L.NewTable()
		tbl.RawSetString("op", lua.LString("remove"))
		tbl.RawSetString("entity", entity)
		tbl.RawSetString("component", lua.LString(component))
		L.Push(tbl)
		return 1
	}))

	// Destroy(entity)
	L.SetGlobal("Destroy", L.NewFunction(func(L *lua.LState) int {
		entity := L.CheckNumber(1)
		tbl := L.NewTable()
		tbl.RawSetString("op", lua.LString("destroy"))
		tbl.RawSetString("entity", entity)
		L.Push(tbl)
		return 1
	}))

	// Event("type", { data })
	L.SetGlobal("Event", L.NewFunction(func(L *lua.LState) int {
		eventType := L.CheckString(1)
		data := L.OptTable(2, nil)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString(eventType))
		if data != nil {
			tbl.RawSetString("data", data)
		}
		L.Push(tbl)
		return 1
	}))
}

// registerQueries installs the read-only world table law bodies use. It is
// bound to the store's facade, so Lua code cannot mutate outside the commit
// protocol no matter what it does.
func registerQueries(L *lua.LState, pack *Pack) {
	view := pack.Store.View()
	world := L.NewTable()

	// world.get(entity, "Component") → table or nil
	world.RawSetString("get", L.NewFunction(func(L *lua.LState) int {
		e := types.Entity(L.CheckNumber(1))
		name := L.CheckString(2)
		data, ok := view.ComponentData(e, name)
		if !ok {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(goToLua(L, data))
		return 1
	}))

	// world.has(entity, "Component") → bool
	world.RawSetString("has", L.NewFunction(func(L *lua.LState) int {
		e := types.Entity(L.CheckNumber(1))
		L.Push(lua.LBool(view.HasComponent(e, L.CheckString(2))))
		return 1
	}))

	// world.tagged(entity, "tag") → bool
	world.RawSetString("tagged", L.NewFunction(func(L *lua.LState) int {
		e := types.Entity(L.CheckNumber(1))
		L.Push(lua.LBool(view.HasTag(e, L.CheckString(2))))
		return 1
	}))

	// world.find("pretty_id") → entity or nil
	world.RawSetString("find", L.NewFunction(func(L *lua.LState) int {
		e, ok := view.ByPrettyID(L.CheckString(1))
		if !ok {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(lua.LNumber(e))
		return 1
	}))

	// world.query("A", "B", ...) → array of entities with all components
	world.RawSetString("query", L.NewFunction(func(L *lua.LState) int {
		var names []string
		for i := 1; i <= L.GetTop(); i++ {
			names = append(names, L.CheckString(i))
		}
		result := L.NewTable()
		for _, e := range view.EntitiesWith(names...) {
			result.Append(lua.LNumber(e))
		}
		L.Push(result)
		return 1
	}))

	// world.name(entity) → display name
	world.RawSetString("name", L.NewFunction(func(L *lua.LState) int {
		e := types.Entity(L.CheckNumber(1))
		L.Push(lua.LString(view.DisplayName(e)))
		return 1
	}))

	L.SetGlobal("world", world)
}
