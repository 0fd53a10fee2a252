// SPDX-License-Identifier: EPL-2.0

package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/ik5/audspatial/scene"
	"github.com/ik5/audspatial/spatial"
)

var (
	ErrNoPosition = errors.New("script: no position(t) function")
	ErrBadReturn  = errors.New("script: function must return three numbers")
	ErrClosed     = errors.New("script: trajectory is closed")
)

// callTimeout bounds one evaluation so a runaway script cannot stall the
// update tick.
const callTimeout = 50 * time.Millisecond

// Trajectory evaluates a Lua script describing an entity's motion. The
// script defines position(t) returning x, y, z and may define ahead(t)
// returning the facing direction. t is in seconds.
//
//	function position(t)
//	  return 3 * math.sin(t), 0, 3 * math.cos(t)
//	end
//
// Only the base, table, string and math libraries are available.
type Trajectory struct {
	mu       sync.Mutex
	vm       *lua.LState
	position *lua.LFunction
	ahead    *lua.LFunction
}

// LoadTrajectory compiles and runs src once, then looks up its functions.
func LoadTrajectory(src string) (*Trajectory, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()
	L.SetContext(ctx)

	if err := L.DoString(src); err != nil {
		L.Close()
		return nil, fmt.Errorf("script: load: %w", err)
	}
	L.RemoveContext()

	position, ok := L.GetGlobal("position").(*lua.LFunction)
	if !ok {
		L.Close()
		return nil, ErrNoPosition
	}
	ahead, _ := L.GetGlobal("ahead").(*lua.LFunction)

	return &Trajectory{vm: L, position: position, ahead: ahead}, nil
}

// LoadTrajectoryFile reads and loads a script file.
func LoadTrajectoryFile(path string) (*Trajectory, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	return LoadTrajectory(string(src))
}

// At evaluates the trajectory at t seconds. Without ahead(t) the entity
// keeps the identity orientation.
func (tr *Trajectory) At(t float64) (spatial.Orientation, error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if tr.vm == nil {
		return spatial.Orientation{}, ErrClosed
	}

	pos, err := tr.call(tr.position, t)
	if err != nil {
		return spatial.Orientation{}, fmt.Errorf("position(%g): %w", t, err)
	}
	if tr.ahead == nil {
		return spatial.Identity(pos), nil
	}

	ahead, err := tr.call(tr.ahead, t)
	if err != nil {
		return spatial.Orientation{}, fmt.Errorf("ahead(%g): %w", t, err)
	}
	return spatial.LookAt(pos, pos.Add(ahead), spatial.V(0, 1, 0)), nil
}

func (tr *Trajectory) call(fn *lua.LFunction, t float64) (spatial.Vec3, error) {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()
	tr.vm.SetContext(ctx)
	defer tr.vm.RemoveContext()

	if err := tr.vm.CallByParam(lua.P{Fn: fn, NRet: 3, Protect: true}, lua.LNumber(t)); err != nil {
		return spatial.Vec3{}, err
	}

	var v [3]float64
	for i := range v {
		n, ok := tr.vm.Get(i - 3).(lua.LNumber)
		if !ok {
			tr.vm.Pop(3)
			return spatial.Vec3{}, ErrBadReturn
		}
		v[i] = float64(n)
	}
	tr.vm.Pop(3)

	return spatial.V(v[0], v[1], v[2]), nil
}

// Drive returns a scene update that moves entity id along the trajectory.
func (tr *Trajectory) Drive(id scene.EntityID) scene.UpdateFunc {
	return func(w *scene.World, elapsed time.Duration) error {
		o, err := tr.At(elapsed.Seconds())
		if err != nil {
			return err
		}
		return w.SetTransform(id, o)
	}
}

func (tr *Trajectory) Close() {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if tr.vm != nil {
		tr.vm.Close()
		tr.vm = nil
	}
}
