package testmod

import (
	"context"
	"sync"

	"github.com/voltworks/volt-shim/physics"
)

// recorder collects forwarded operation names.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) record(op string) {
	r.mu.Lock()
	r.calls = append(r.calls, op)
	r.mu.Unlock()
}

// Calls returns the recorded operation names in call order.
func (r *recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// CallCount returns how many operations were recorded.
func (r *recorder) CallCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// StubPhysics is a recording physics.Physics. Canned results are plain
// fields; set them before use. When Err is set every operation fails
// with it after recording.
type StubPhysics struct {
	recorder

	Err error

	Env         physics.Environment
	ActiveEnv   physics.Environment
	PairHash    physics.ObjectPairHash
	Set         physics.CollisionSet
	QueryResult any

	LastFactory     physics.Factory
	LastQueried     string
	LastDestroyed   physics.Environment
	LastIndex       int
	LastSetID       uint32
	LastMaxElements int
}

func (s *StubPhysics) Connect(ctx context.Context, factory physics.Factory) error {
	s.record("Connect")
	s.LastFactory = factory
	return s.Err
}

func (s *StubPhysics) Disconnect(ctx context.Context) error {
	s.record("Disconnect")
	return s.Err
}

func (s *StubPhysics) Init(ctx context.Context) error {
	s.record("Init")
	return s.Err
}

func (s *StubPhysics) Shutdown(ctx context.Context) error {
	s.record("Shutdown")
	return s.Err
}

func (s *StubPhysics) QueryInterface(ctx context.Context, name string) (any, error) {
	s.record("QueryInterface")
	s.LastQueried = name
	return s.QueryResult, s.Err
}

func (s *StubPhysics) CreateEnvironment(ctx context.Context) (physics.Environment, error) {
	s.record("CreateEnvironment")
	return s.Env, s.Err
}

func (s *StubPhysics) DestroyEnvironment(ctx context.Context, env physics.Environment) error {
	s.record("DestroyEnvironment")
	s.LastDestroyed = env
	return s.Err
}

func (s *StubPhysics) ActiveEnvironmentByIndex(ctx context.Context, index int) (physics.Environment, error) {
	s.record("ActiveEnvironmentByIndex")
	s.LastIndex = index
	return s.ActiveEnv, s.Err
}

func (s *StubPhysics) CreateObjectPairHash(ctx context.Context) (physics.ObjectPairHash, error) {
	s.record("CreateObjectPairHash")
	return s.PairHash, s.Err
}

func (s *StubPhysics) DestroyObjectPairHash(ctx context.Context, hash physics.ObjectPairHash) error {
	s.record("DestroyObjectPairHash")
	return s.Err
}

func (s *StubPhysics) FindOrCreateCollisionSet(ctx context.Context, id uint32, maxElements int) (physics.CollisionSet, error) {
	s.record("FindOrCreateCollisionSet")
	s.LastSetID = id
	s.LastMaxElements = maxElements
	return s.Set, s.Err
}

func (s *StubPhysics) FindCollisionSet(ctx context.Context, id uint32) (physics.CollisionSet, error) {
	s.record("FindCollisionSet")
	s.LastSetID = id
	return s.Set, s.Err
}

func (s *StubPhysics) DestroyAllCollisionSets(ctx context.Context) error {
	s.record("DestroyAllCollisionSets")
	return s.Err
}

var _ physics.Physics = (*StubPhysics)(nil)

// StubEnvironment is a recording physics.Environment.
type StubEnvironment struct {
	recorder

	Err error

	Gravity     physics.Vector
	AirDensity  float32
	InSim       bool
	SimTime     float32
	Timestep    float32
	ActiveCount int

	LastDelta float32
	LastQuick bool
}

func (s *StubEnvironment) SetGravity(ctx context.Context, accel physics.Vector) error {
	s.record("SetGravity")
	s.Gravity = accel
	return s.Err
}

func (s *StubEnvironment) GetGravity(ctx context.Context) (physics.Vector, error) {
	s.record("GetGravity")
	return s.Gravity, s.Err
}

func (s *StubEnvironment) SetAirDensity(ctx context.Context, density float32) error {
	s.record("SetAirDensity")
	s.AirDensity = density
	return s.Err
}

func (s *StubEnvironment) GetAirDensity(ctx context.Context) (float32, error) {
	s.record("GetAirDensity")
	return s.AirDensity, s.Err
}

func (s *StubEnvironment) Simulate(ctx context.Context, deltaTime float32) error {
	s.record("Simulate")
	s.LastDelta = deltaTime
	return s.Err
}

func (s *StubEnvironment) IsInSimulation(ctx context.Context) (bool, error) {
	s.record("IsInSimulation")
	return s.InSim, s.Err
}

func (s *StubEnvironment) GetSimulationTime(ctx context.Context) (float32, error) {
	s.record("GetSimulationTime")
	return s.SimTime, s.Err
}

func (s *StubEnvironment) SetSimulationTimestep(ctx context.Context, timestep float32) error {
	s.record("SetSimulationTimestep")
	s.Timestep = timestep
	return s.Err
}

func (s *StubEnvironment) GetSimulationTimestep(ctx context.Context) (float32, error) {
	s.record("GetSimulationTimestep")
	return s.Timestep, s.Err
}

func (s *StubEnvironment) ResetSimulationClock(ctx context.Context) error {
	s.record("ResetSimulationClock")
	s.SimTime = 0
	return s.Err
}

func (s *StubEnvironment) GetActiveObjectCount(ctx context.Context) (int, error) {
	s.record("GetActiveObjectCount")
	return s.ActiveCount, s.Err
}

func (s *StubEnvironment) SetQuickDelete(ctx context.Context, quick bool) error {
	s.record("SetQuickDelete")
	s.LastQuick = quick
	return s.Err
}

var _ physics.Environment = (*StubEnvironment)(nil)

// StubObjectPairHash is a recording physics.ObjectPairHash backed by a
// real pair set, so membership answers are consistent.
type StubObjectPairHash struct {
	recorder

	Err   error
	pairs map[[2]physics.ObjectRef]bool
}

func pairKey(a, b physics.ObjectRef) [2]physics.ObjectRef {
	if b < a {
		a, b = b, a
	}
	return [2]physics.ObjectRef{a, b}
}

func (s *StubObjectPairHash) AddObjectPair(ctx context.Context, a, b physics.ObjectRef) error {
	s.record("AddObjectPair")
	if s.Err != nil {
		return s.Err
	}
	if s.pairs == nil {
		s.pairs = make(map[[2]physics.ObjectRef]bool)
	}
	s.pairs[pairKey(a, b)] = true
	return nil
}

func (s *StubObjectPairHash) RemoveObjectPair(ctx context.Context, a, b physics.ObjectRef) error {
	s.record("RemoveObjectPair")
	if s.Err != nil {
		return s.Err
	}
	delete(s.pairs, pairKey(a, b))
	return nil
}

func (s *StubObjectPairHash) IsObjectPairInHash(ctx context.Context, a, b physics.ObjectRef) (bool, error) {
	s.record("IsObjectPairInHash")
	return s.pairs[pairKey(a, b)], s.Err
}

func (s *StubObjectPairHash) RemoveAllPairsForObject(ctx context.Context, obj physics.ObjectRef) error {
	s.record("RemoveAllPairsForObject")
	if s.Err != nil {
		return s.Err
	}
	for key := range s.pairs {
		if key[0] == obj || key[1] == obj {
			delete(s.pairs, key)
		}
	}
	return nil
}

func (s *StubObjectPairHash) IsObjectInHash(ctx context.Context, obj physics.ObjectRef) (bool, error) {
	s.record("IsObjectInHash")
	for key := range s.pairs {
		if key[0] == obj || key[1] == obj {
			return true, s.Err
		}
	}
	return false, s.Err
}

func (s *StubObjectPairHash) GetPairCountForObject(ctx context.Context, obj physics.ObjectRef) (int, error) {
	s.record("GetPairCountForObject")
	n := 0
	for key := range s.pairs {
		if key[0] == obj || key[1] == obj {
			n++
		}
	}
	return n, s.Err
}

var _ physics.ObjectPairHash = (*StubObjectPairHash)(nil)

// StubCollisionSet is a recording physics.CollisionSet. Pairs collide
// unless disabled, matching engine behavior.
type StubCollisionSet struct {
	recorder

	Err      error
	disabled map[[2]int]bool
}

func setKey(i, j int) [2]int {
	if j < i {
		i, j = j, i
	}
	return [2]int{i, j}
}

func (s *StubCollisionSet) EnableCollisions(ctx context.Context, i, j int) error {
	s.record("EnableCollisions")
	if s.Err != nil {
		return s.Err
	}
	delete(s.disabled, setKey(i, j))
	return nil
}

func (s *StubCollisionSet) DisableCollisions(ctx context.Context, i, j int) error {
	s.record("DisableCollisions")
	if s.Err != nil {
		return s.Err
	}
	if s.disabled == nil {
		s.disabled = make(map[[2]int]bool)
	}
	s.disabled[setKey(i, j)] = true
	return nil
}

func (s *StubCollisionSet) ShouldCollide(ctx context.Context, i, j int) (bool, error) {
	s.record("ShouldCollide")
	return !s.disabled[setKey(i, j)], s.Err
}

var _ physics.CollisionSet = (*StubCollisionSet)(nil)
