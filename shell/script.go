package shell

import (
	"errors"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
)

const luaShellGlobal = "reversi_shell"

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal(luaShellGlobal)
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

// luaCommand exposes a shell command to Lua. The Lua function takes the
// rest of the command line as a single string and returns what the shell
// would have printed, or an ERROR: line.
func luaCommand(name string, handler func(*ShellController, *shellcmd) (*Response, error)) lua.LGFunction {
	return func(L *lua.LState) int {
		lv := L.OptString(1, "")
		sc := getShell(L)
		cmd, err := extractFields(name + " " + lv)
		if err != nil {
			log.Err(err).Msg("error-parsing-" + name)
			L.Push(lua.LString("ERROR: " + err.Error()))
			return 1
		}
		r, err := handler(sc, cmd)
		if err != nil {
			log.Err(err).Msg("error-executing-" + name)
			L.Push(lua.LString("ERROR: " + err.Error()))
			return 1
		}
		if r == nil {
			L.Push(lua.LString(""))
		} else {
			L.Push(lua.LString(r.message))
		}
		// return number of results pushed to stack.
		return 1
	}
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("need arguments for script")
	}
	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()

	lsc := L.NewUserData()
	lsc.Value = sc

	L.SetGlobal(luaShellGlobal, lsc)
	L.SetGlobal("reversi_new", L.NewFunction(luaCommand("new", (*ShellController).newGame)))
	L.SetGlobal("reversi_show", L.NewFunction(luaCommand("show", (*ShellController).show)))
	L.SetGlobal("reversi_gen", L.NewFunction(luaCommand("gen", (*ShellController).generate)))
	L.SetGlobal("reversi_play", L.NewFunction(luaCommand("play", (*ShellController).play)))
	L.SetGlobal("reversi_think", L.NewFunction(luaCommand("think", (*ShellController).think)))
	L.SetGlobal("reversi_bot", L.NewFunction(luaCommand("bot", (*ShellController).bot)))
	L.SetGlobal("reversi_set", L.NewFunction(luaCommand("set", (*ShellController).set)))

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("there was a error")
		return nil, err
	}
	return msg("ran " + filepath), nil
}
