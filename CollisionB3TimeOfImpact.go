package box3d

import (
	"math"
)

/// Input parameters for B3TimeOfImpact
type B3TOIInput struct {
	ProxyA B3DistanceProxy
	ProxyB B3DistanceProxy
	SweepA B3Sweep
	SweepB B3Sweep
	TMax   float64 // defines sweep interval [0, tMax]

	Target        float64 // surface distance accepted as contact
	Tolerance     float64
	MaxIterations int
}

func MakeB3TOIInput(settings B3Settings) B3TOIInput {
	return B3TOIInput{
		TMax:          1.0,
		Target:        settings.LinearSlop,
		Tolerance:     settings.TOITolerance,
		MaxIterations: settings.TOIMaxIterations,
	}
}

// Output parameters for B3TimeOfImpact.

var B3TOIOutput_State = struct {
	E_unknown    uint8
	E_failed     uint8
	E_overlapped uint8
	E_touching   uint8
	E_separated  uint8
}{
	E_unknown:    1,
	E_failed:     2,
	E_overlapped: 3,
	E_touching:   4,
	E_separated:  5,
}

type B3TOIOutput struct {
	State      uint8
	T          float64
	Iterations int
}

/// Compute the upper bound on time before two shapes penetrate using
/// conservative advancement. Time is represented as a fraction in
/// [0, tMax]. At every iteration GJK gives the surface distance and
/// normal; the sweep cannot close that gap faster than the relative
/// linear speed along the normal plus the rotational speed of the
/// farthest point of each shape, so advancing by distance / bound never
/// steps past the first contact.
func B3TimeOfImpact(output *B3TOIOutput, input *B3TOIInput) {
	output.State = B3TOIOutput_State.E_unknown
	output.T = input.TMax
	output.Iterations = 0

	proxyA := &input.ProxyA
	proxyB := &input.ProxyB

	sweepA := input.SweepA
	sweepB := input.SweepB

	tMax := input.TMax
	target := math.Max(input.Target, 0.0)
	tolerance := input.Tolerance
	maxIterations := input.MaxIterations
	if maxIterations <= 0 {
		maxIterations = 32
	}

	// Rotational reach of each shape over the whole step.
	angularBound := sweepA.W.Len()*proxyA.GetMaximumRadius() + sweepB.W.Len()*proxyB.GetMaximumRadius()
	translationA := sweepA.GetTranslation()
	translationB := sweepB.GetTranslation()

	t := 0.0
	cache := MakeB3SimplexCache()
	distanceInput := B3DistanceInput{
		ProxyA:   *proxyA,
		ProxyB:   *proxyB,
		UseRadii: true,
	}

	for iter := 0; ; iter++ {
		output.Iterations = iter + 1

		sweepA.GetTransform(&distanceInput.TransformA, t)
		sweepB.GetTransform(&distanceInput.TransformB, t)

		var distanceOutput B3DistanceOutput
		B3Distance(&distanceOutput, &cache, &distanceInput)

		distance := distanceOutput.Distance

		// If the shapes are overlapped, we give up on continuous collision.
		if iter == 0 && distance <= 0.0 {
			output.State = B3TOIOutput_State.E_overlapped
			output.T = 0.0
			return
		}

		if distance < target+tolerance {
			// Victory!
			output.State = B3TOIOutput_State.E_touching
			output.T = t
			return
		}

		normal, _, ok := B3Vec3Normalize(distanceOutput.PointB.Sub(distanceOutput.PointA))
		if !ok {
			output.State = B3TOIOutput_State.E_touching
			output.T = t
			return
		}

		// Closing speed bound, per unit of step fraction.
		bound := translationA.Sub(translationB).Dot(normal) + angularBound
		if bound <= B3_epsilon {
			output.State = B3TOIOutput_State.E_separated
			output.T = tMax
			return
		}

		t += (distance - target) / bound
		if t >= tMax {
			output.State = B3TOIOutput_State.E_separated
			output.T = tMax
			return
		}

		if iter+1 == maxIterations {
			// Root finder got stuck. Semi-victory.
			output.State = B3TOIOutput_State.E_failed
			output.T = t
			return
		}
	}
}
