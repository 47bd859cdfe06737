// Package loader executes Lua world packs: component definitions, entities,
// and laws. Unlike a pure data DSL, law bodies stay live in the VM — the
// pipeline calls back into Lua every time a law is invoked — so the returned
// Pack owns the VM for the lifetime of the world.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/tmavro/edict/ecs"
	"github.com/tmavro/edict/engine/laws"
)

// Pack is a loaded world: the populated store and registry, plus the Lua VM
// that law bodies live in. The VM is single-threaded; the engine's
// one-intent-at-a-time discipline is what makes calling into it safe.
type Pack struct {
	Title   string
	Author  string
	Version string
	Intro   string

	Store    *ecs.Store
	Registry *laws.Registry

	vm *lua.LState
}

// Close shuts down the pack's Lua VM. Laws must not be invoked afterwards.
func (p *Pack) Close() {
	if p.vm != nil {
		p.vm.Close()
		p.vm = nil
	}
}

// Load reads all .lua files from dir (world.lua first, the rest
// alphabetical) and builds the pack.
func Load(dir string) (*Pack, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading pack directory %s: %w", dir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}
	luaFiles = sortedLuaFiles(luaFiles)

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibs(L)
	sandbox(L)

	pack := &Pack{
		Store:    ecs.NewStore(),
		Registry: laws.NewRegistry(),
		vm:       L,
	}
	registerAPI(L, pack)

	for _, f := range luaFiles {
		path := filepath.Join(dir, f)
		if err := L.DoFile(path); err != nil {
			L.Close()
			return nil, fmt.Errorf("executing %s: %w", f, err)
		}
	}

	return pack, nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes globals that would let pack code escape the VM or break
// determinism.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	if mathTbl := L.GetGlobal("math"); mathTbl != lua.LNil {
		if tbl, ok := mathTbl.(*lua.LTable); ok {
			tbl.RawSetString("randomseed", lua.LNil)
		}
	}
}

// sortedLuaFiles puts world.lua first, the rest alphabetical.
func sortedLuaFiles(files []string) []string {
	var worldFile string
	var others []string
	for _, f := range files {
		if f == "world.lua" {
			worldFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if worldFile != "" {
		return append([]string{worldFile}, others...)
	}
	return others
}
