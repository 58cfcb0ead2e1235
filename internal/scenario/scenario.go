// Package scenario loads potential pairs for uniqueness checks from Lua
// scripts.
//
// A scenario script builds a Scenario userdata, defines exactly two
// potentials as Lua functions of a single coordinate, and lists the probe
// points where the pair is compared:
//
//	local s = Scenario.new("shifted-harmonic")
//	s:potential("v1", function(x) return x * x end)
//	s:potential("v2", function(x) return x * x + 1 end)
//	s:probe(-1.0, 0.0, 1.0)
//	return s
//
// The Lua functions are sampled at the probe points while the interpreter is
// still alive; the resulting tabulated potentials are plain Go values with no
// reference back to the Lua state.
package scenario

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"
	"github.com/groundstate/hktheorem/internal/platform/errors"
	"github.com/groundstate/hktheorem/internal/theory"
)

const scenarioTypeName = "scenario"

// Scenario is a named pair of potentials with the probe points used to
// compare them.
type Scenario struct {
	Name   string
	V1     theory.Potential
	V2     theory.Potential
	Probes []float64
}

type potentialDef struct {
	name        string
	registryKey string
}

type builder struct {
	name       string
	potentials []potentialDef
	probes     []float64
}

// LoadFile runs a Lua scenario script and returns the sampled scenario.
func LoadFile(path string) (Scenario, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)

	registerScenarioType(state)
	registerScenarioConstructor(state)

	if err := lua.LoadFile(state, path, ""); err != nil {
		return Scenario{}, errors.Wrap(errors.CodeScenarioInvalid, "load lua", err)
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return Scenario{}, errors.Wrap(errors.CodeScenarioInvalid, "run lua", err)
	}

	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return Scenario{}, errors.New(errors.CodeScenarioInvalid, "scenario script must return Scenario")
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	b, ok := ud.(*builder)
	if !ok || b == nil {
		return Scenario{}, errors.New(errors.CodeScenarioInvalid, "scenario script returned invalid Scenario")
	}
	if strings.TrimSpace(b.name) == "" {
		b.name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sample(state, b)
}

// sample evaluates the stashed Lua potential functions at every probe point
// and builds tabulated Go potentials. It must run before the Lua state is
// discarded.
func sample(state *lua.State, b *builder) (Scenario, error) {
	if len(b.potentials) != 2 {
		return Scenario{}, errors.WithMetadata(errors.CodeScenarioInvalid,
			"scenario requires exactly two potentials",
			map[string]string{"count": fmt.Sprintf("%d", len(b.potentials))})
	}
	if b.potentials[0].name == b.potentials[1].name {
		return Scenario{}, errors.WithMetadata(errors.CodeScenarioInvalid,
			"potentials must have distinct names",
			map[string]string{"name": b.potentials[0].name})
	}
	if len(b.probes) < 2 {
		return Scenario{}, errors.New(errors.CodeScenarioInvalid,
			"scenario requires at least two probe points")
	}

	potentials := make([]theory.Potential, 0, 2)
	for _, def := range b.potentials {
		table := make(map[float64]float64, len(b.probes))
		for _, x := range b.probes {
			state.Field(lua.RegistryIndex, def.registryKey)
			state.PushNumber(x)
			if err := state.ProtectedCall(1, 1, 0); err != nil {
				return Scenario{}, errors.Wrap(errors.CodeScenarioInvalid,
					fmt.Sprintf("evaluate potential %q at %v", def.name, x), err)
			}
			value, ok := state.ToNumber(-1)
			state.Pop(1)
			if !ok {
				return Scenario{}, errors.WithMetadata(errors.CodeScenarioInvalid,
					"potential function must return a number",
					map[string]string{"potential": def.name})
			}
			table[x] = value
		}
		p, err := theory.NewPotential(def.name, func(x float64) float64 {
			return table[x]
		})
		if err != nil {
			return Scenario{}, err
		}
		potentials = append(potentials, p)
	}

	return Scenario{
		Name:   b.name,
		V1:     potentials[0],
		V2:     potentials[1],
		Probes: append([]float64(nil), b.probes...),
	}, nil
}

func registerScenarioType(state *lua.State) {
	lua.NewMetaTable(state, scenarioTypeName)
	state.NewTable()
	lua.SetFunctions(state, scenarioMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)
}

func registerScenarioConstructor(state *lua.State) {
	state.NewTable()
	lua.SetFunctions(state, scenarioConstructor, 0)
	state.SetGlobal("Scenario")
}

var scenarioConstructor = []lua.RegistryFunction{
	{Name: "new", Function: scenarioNew},
}

var scenarioMethods = []lua.RegistryFunction{
	{Name: "potential", Function: scenarioPotential},
	{Name: "probe", Function: scenarioProbe},
}

func scenarioNew(state *lua.State) int {
	name := lua.OptString(state, 1, "")
	state.PushUserData(&builder{name: name})
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

func scenarioPotential(state *lua.State) int {
	b := checkBuilder(state)
	name := lua.CheckString(state, 2)
	lua.CheckType(state, 3, lua.TypeFunction)
	if len(b.potentials) >= 2 {
		lua.Errorf(state, "scenario already has two potentials")
		return 0
	}
	key := fmt.Sprintf("hktheorem.potential.%s.%d", b.name, len(b.potentials))
	state.PushValue(3)
	state.SetField(lua.RegistryIndex, key)
	b.potentials = append(b.potentials, potentialDef{name: name, registryKey: key})
	return 0
}

func scenarioProbe(state *lua.State) int {
	b := checkBuilder(state)
	top := state.Top()
	if top < 2 {
		lua.ArgumentError(state, 2, "probe point expected")
		return 0
	}
	for i := 2; i <= top; i++ {
		b.probes = append(b.probes, lua.CheckNumber(state, i))
	}
	return 0
}

func checkBuilder(state *lua.State) *builder {
	ud := lua.CheckUserData(state, 1, scenarioTypeName)
	if b, ok := ud.(*builder); ok && b != nil {
		return b
	}
	lua.ArgumentError(state, 1, "scenario expected")
	return nil
}
