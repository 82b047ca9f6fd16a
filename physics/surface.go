package physics

// StringTableIndex addresses the engine's sound-name string table.
// Resolve it to text with SurfaceProps.GetString.
type StringTableIndex uint16

// SurfacePhysicsParams are the simulation inputs of a surface material.
type SurfacePhysicsParams struct {
	Friction   float32
	Elasticity float32
	Density    float32
	Thickness  float32
	Dampening  float32
}

// SurfaceAudioParams shape impact and scrape sound selection.
type SurfaceAudioParams struct {
	Reflectivity          float32
	HardnessFactor        float32
	RoughnessFactor       float32
	RoughThreshold        float32
	HardThreshold         float32
	HardVelocityThreshold float32
}

// SurfaceSoundNames are string-table indexes of the sounds a surface
// plays. Zero means no sound is assigned.
type SurfaceSoundNames struct {
	StepLeft     StringTableIndex
	StepRight    StringTableIndex
	ImpactSoft   StringTableIndex
	ImpactHard   StringTableIndex
	ScrapeSmooth StringTableIndex
	ScrapeRough  StringTableIndex
	BulletImpact StringTableIndex
	Rolling      StringTableIndex
	Break        StringTableIndex
	Strain       StringTableIndex
}

// SurfaceGameProps are gameplay attributes of a surface material.
type SurfaceGameProps struct {
	MaxSpeedFactor float32
	JumpFactor     float32
	Material       uint16
	Climbable      bool
}

// SurfaceData is the full property sheet of one surface material.
type SurfaceData struct {
	Physics SurfacePhysicsParams
	Audio   SurfaceAudioParams
	Sounds  SurfaceSoundNames
	Game    SurfaceGameProps
}
