package box3d

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

const B3DEBUG = false

func B3Assert(a bool) {
	if !a {
		panic("B3Assert")
	}
}

// B3Assertf panics with a formatted message. Used for wiring errors the
// caller needs to see (missing dispatch entries, handler mismatches).
func B3Assertf(a bool, format string, args ...interface{}) {
	if !a {
		panic(fmt.Sprintf("B3Assert: "+format, args...))
	}
}

const B3_maxFloat = math.MaxFloat64
const B3_epsilon = 1e-9
const B3_pi = math.Pi

/// @file
/// Global tuning constants based on meters-kilograms-seconds (MKS) units.
///

// Collision

/// The maximum number of contact points kept in a manifold between two
/// convex shapes.
const B3_maxManifoldPoints = 4

/// The maximum number of raw points a single convex-convex test may produce
/// before reduction. Clipping a quad against a quad yields at most 8.
const B3_maxRawManifoldPoints = 16

/// The maximum number of vertices on a polyhedron face.
const B3_maxFaceVertices = 16

/// The maximum number of vertices of a polyhedron. Feature indices are
/// stored in a byte.
const B3_maxPolyhedronVertices = 255

/// This is used to fatten AABBs in the dynamic tree. This allows proxies
/// to move by a small amount without triggering a tree adjustment.
/// This is in meters.
const B3_aabbExtension = 0.1

/// This is used to fatten AABBs in the dynamic tree. This is used to predict
/// the future position based on the current displacement.
/// This is a dimensionless multiplier.
const B3_aabbMultiplier = 2.0

/// A small length used as a collision and constraint tolerance. Usually it is
/// chosen to be numerically significant, but visually insignificant.
const B3_linearSlop = 0.005

/// Squared lengths below this are treated as zero by geometry code.
const B3_degenerateLengthSquared = 1e-12

/// Maximum number of GJK iterations.
const B3_maxGJKIterations = 32

// Material mixing rules.
var B3MixRule = struct {
	GeometricMean string
	Average       string
	Min           string
	Max           string
	Multiply      string
}{
	GeometricMean: "geometric_mean",
	Average:       "average",
	Min:           "min",
	Max:           "max",
	Multiply:      "multiply",
}

/// Friction mixing law. The idea is to allow either collidable to drive the friction to zero.
/// For example, anything slides on ice.
func B3MixFriction(friction1, friction2 float64) float64 {
	return math.Sqrt(friction1 * friction2)
}

/// Restitution mixing law. The idea is allow for anything to bounce off an inelastic surface.
/// For example, a superball bounces on anything.
func B3MixRestitution(restitution1, restitution2 float64) float64 {
	if restitution1 > restitution2 {
		return restitution1
	}

	return restitution2
}

// B3Mix combines two material coefficients with the named rule.
func B3Mix(rule string, a, b float64) float64 {
	switch rule {
	case B3MixRule.GeometricMean:
		return B3MixFriction(a, b)
	case B3MixRule.Average:
		return 0.5 * (a + b)
	case B3MixRule.Min:
		return math.Min(a, b)
	case B3MixRule.Max:
		return B3MixRestitution(a, b)
	case B3MixRule.Multiply:
		return a * b
	}

	B3Assertf(false, "unknown mix rule %q", rule)
	return 0.0
}

func isB3MixRule(rule string) bool {
	switch rule {
	case B3MixRule.GeometricMean, B3MixRule.Average, B3MixRule.Min, B3MixRule.Max, B3MixRule.Multiply:
		return true
	}
	return false
}

// B3Settings holds the runtime tunables of the narrow phase.
type B3Settings struct {
	// Separation below which a pair of features still produces a
	// (speculative) contact point.
	ContactMargin float64 `yaml:"contact_margin"`

	LinearSlop float64 `yaml:"linear_slop"`

	// Time of impact results at or below this fraction are rejected as
	// start-of-step self intersections.
	TOIEpsilon       float64 `yaml:"toi_epsilon"`
	TOIMaxIterations int     `yaml:"toi_max_iterations"`
	TOITolerance     float64 `yaml:"toi_tolerance"`

	FrictionRule    string `yaml:"friction_rule"`
	RestitutionRule string `yaml:"restitution_rule"`

	PoolGrowIncrement int `yaml:"pool_grow_increment"`
	Workers           int `yaml:"workers"`

	// Debug turns stale pair references into panics instead of skips.
	Debug bool `yaml:"debug"`
}

func MakeB3Settings() B3Settings {
	return B3Settings{
		ContactMargin:     0.02,
		LinearSlop:        B3_linearSlop,
		TOIEpsilon:        1e-4,
		TOIMaxIterations:  32,
		TOITolerance:      0.25 * B3_linearSlop,
		FrictionRule:      B3MixRule.GeometricMean,
		RestitutionRule:   B3MixRule.Max,
		PoolGrowIncrement: 16,
		Workers:           4,
		Debug:             B3DEBUG,
	}
}

func (s B3Settings) Validate() error {
	if s.ContactMargin < 0.0 {
		return fmt.Errorf("box3d: contact_margin must be >= 0, got %v", s.ContactMargin)
	}
	if s.LinearSlop <= 0.0 {
		return fmt.Errorf("box3d: linear_slop must be > 0, got %v", s.LinearSlop)
	}
	if s.TOIEpsilon < 0.0 || s.TOIEpsilon >= 1.0 {
		return fmt.Errorf("box3d: toi_epsilon must be in [0,1), got %v", s.TOIEpsilon)
	}
	if s.TOIMaxIterations <= 0 {
		return fmt.Errorf("box3d: toi_max_iterations must be > 0, got %d", s.TOIMaxIterations)
	}
	if s.TOITolerance <= 0.0 {
		return fmt.Errorf("box3d: toi_tolerance must be > 0, got %v", s.TOITolerance)
	}
	if !isB3MixRule(s.FrictionRule) {
		return fmt.Errorf("box3d: unknown friction_rule %q", s.FrictionRule)
	}
	if !isB3MixRule(s.RestitutionRule) {
		return fmt.Errorf("box3d: unknown restitution_rule %q", s.RestitutionRule)
	}
	if s.PoolGrowIncrement <= 0 {
		return fmt.Errorf("box3d: pool_grow_increment must be > 0, got %d", s.PoolGrowIncrement)
	}
	if s.Workers <= 0 {
		return fmt.Errorf("box3d: workers must be > 0, got %d", s.Workers)
	}
	return nil
}

// ParseB3Settings decodes YAML on top of the defaults, so a file only needs
// the keys it overrides.
func ParseB3Settings(data []byte) (B3Settings, error) {
	settings := MakeB3Settings()
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return B3Settings{}, fmt.Errorf("box3d: unmarshal settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return B3Settings{}, err
	}
	return settings, nil
}

func LoadB3Settings(filename string) (B3Settings, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return B3Settings{}, fmt.Errorf("box3d: load %s: %w", filename, err)
	}

	settings, err := ParseB3Settings(data)
	if err != nil {
		return B3Settings{}, fmt.Errorf("box3d: %s: %w", filename, err)
	}
	return settings, nil
}
