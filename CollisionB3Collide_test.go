package box3d_test

import (
	"math"
	"testing"

	"github.com/bytearena/box3d"
	"github.com/go-gl/mathgl/mgl64"
)

const collideTolerance = 1e-6

func translation(x, y, z float64) box3d.B3Transform {
	xf := box3d.MakeB3Transform()
	xf.P = mgl64.Vec3{x, y, z}
	return xf
}

func assertNear(t *testing.T, name string, got, expected, tolerance float64) {
	t.Helper()
	if math.Abs(got-expected) > tolerance {
		t.Fatalf("%s: expected %v, got %v", name, expected, got)
	}
}

func TestCollideSpheres(t *testing.T) {
	sphereA := box3d.NewB3SphereShapeWithRadius(1.0)
	sphereB := box3d.NewB3SphereShapeWithRadius(1.0)

	var raw box3d.B3RawManifold
	box3d.B3CollideSpheres(&raw, sphereA, translation(0, 0, 0), sphereB, translation(1.5, 0, 0), 0.0)

	if raw.PointCount != 1 {
		t.Fatalf("expected 1 point, got %d", raw.PointCount)
	}
	assertNear(t, "penetration", raw.Points[0].Penetration, 0.5, collideTolerance)
	assertNear(t, "normal x", raw.Normal[0], 1.0, collideTolerance)
	assertNear(t, "point x", raw.Points[0].Point[0], 0.75, collideTolerance)
}

func TestCollideSpheresSeparatedAndMargin(t *testing.T) {
	sphereA := box3d.NewB3SphereShapeWithRadius(0.5)
	sphereB := box3d.NewB3SphereShapeWithRadius(0.5)

	var raw box3d.B3RawManifold
	box3d.B3CollideSpheres(&raw, sphereA, translation(0, 0, 0), sphereB, translation(1.01, 0, 0), 0.0)
	if raw.PointCount != 0 {
		t.Fatalf("separated spheres should not touch, got %d points", raw.PointCount)
	}

	// Within the margin the point is kept as speculative.
	box3d.B3CollideSpheres(&raw, sphereA, translation(0, 0, 0), sphereB, translation(1.01, 0, 0), 0.02)
	if raw.PointCount != 1 {
		t.Fatalf("expected a speculative point, got %d", raw.PointCount)
	}
	if raw.Points[0].Penetration >= 0.0 {
		t.Fatalf("speculative point should have negative penetration, got %v", raw.Points[0].Penetration)
	}
}

func TestCollideConcentricSpheres(t *testing.T) {
	sphere := box3d.NewB3SphereShapeWithRadius(1.0)

	var raw box3d.B3RawManifold
	box3d.B3CollideSpheres(&raw, sphere, translation(2, 2, 2), sphere, translation(2, 2, 2), 0.0)
	if raw.PointCount != 0 {
		t.Fatalf("concentric spheres have no normal, got %d points", raw.PointCount)
	}
}

func TestCollideBoxAndSphere(t *testing.T) {
	box := box3d.NewB3BoxShape(mgl64.Vec3{1, 1, 1})
	sphere := box3d.NewB3SphereShapeWithRadius(0.5)

	var raw box3d.B3RawManifold
	box3d.B3CollidePolyhedronAndSphere(&raw, box, translation(0, 0, 0), sphere, translation(1.3, 0, 0), 0.0)
	if raw.PointCount != 1 {
		t.Fatalf("expected 1 point, got %d", raw.PointCount)
	}
	assertNear(t, "penetration", raw.Points[0].Penetration, 0.2, 1e-5)
	assertNear(t, "normal x", raw.Normal[0], 1.0, 1e-5)

	// Sphere center inside the box.
	box3d.B3CollidePolyhedronAndSphere(&raw, box, translation(0, 0, 0), sphere, translation(0.8, 0, 0), 0.0)
	if raw.PointCount != 1 {
		t.Fatalf("expected 1 point, got %d", raw.PointCount)
	}
	assertNear(t, "deep penetration", raw.Points[0].Penetration, 0.7, 1e-5)
	assertNear(t, "deep normal x", raw.Normal[0], 1.0, 1e-5)
}

func TestCollideConvexFlipsSphereAndBox(t *testing.T) {
	box := box3d.NewB3BoxShape(mgl64.Vec3{1, 1, 1})
	sphere := box3d.NewB3SphereShapeWithRadius(0.5)

	var raw box3d.B3RawManifold
	box3d.B3CollideConvex(&raw, sphere, translation(1.3, 0, 0), box, translation(0, 0, 0), 0.0)
	if raw.PointCount != 1 {
		t.Fatalf("expected 1 point, got %d", raw.PointCount)
	}

	// Normal points from A (the sphere) to B (the box).
	assertNear(t, "normal x", raw.Normal[0], -1.0, 1e-5)
	assertNear(t, "point normal x", raw.Points[0].Normal[0], -1.0, 1e-5)
}

func TestCollideBoxes(t *testing.T) {
	boxA := box3d.NewB3BoxShape(mgl64.Vec3{0.5, 0.5, 0.5})
	boxB := box3d.NewB3BoxShape(mgl64.Vec3{0.5, 0.5, 0.5})

	var raw box3d.B3RawManifold
	box3d.B3CollidePolyhedrons(&raw, boxA, translation(0, 0, 0), boxB, translation(0.9, 0, 0), 0.0)

	var manifold box3d.B3Manifold
	box3d.B3ReduceManifold(&manifold, &raw)

	if manifold.PointCount < 1 || manifold.PointCount > box3d.B3_maxManifoldPoints {
		t.Fatalf("expected 1 to 4 points, got %d", manifold.PointCount)
	}
	if math.Abs(math.Abs(manifold.Normal[0])-1.0) > 1e-6 {
		t.Fatalf("expected a normal along x, got %v", manifold.Normal)
	}
	assertNear(t, "normal x", manifold.Normal[0], 1.0, 1e-6)
	for i := 0; i < manifold.PointCount; i++ {
		assertNear(t, "penetration", manifold.Points[i].Penetration, 0.1, 1e-6)
		assertNear(t, "point x", manifold.Points[i].Point[0], 0.45, 1e-6)
	}
}

func TestCollideBoxesSeparated(t *testing.T) {
	boxA := box3d.NewB3BoxShape(mgl64.Vec3{0.5, 0.5, 0.5})
	boxB := box3d.NewB3BoxShape(mgl64.Vec3{0.5, 0.5, 0.5})

	var raw box3d.B3RawManifold
	box3d.B3CollidePolyhedrons(&raw, boxA, translation(0, 0, 0), boxB, translation(1.5, 0.2, 0), 0.0)
	if raw.PointCount != 0 {
		t.Fatalf("separated boxes should not touch, got %d points", raw.PointCount)
	}
}

func TestCollideBoxOnRotatedBox(t *testing.T) {
	boxA := box3d.NewB3BoxShape(mgl64.Vec3{2, 0.5, 2})
	boxB := box3d.NewB3BoxShape(mgl64.Vec3{0.5, 0.5, 0.5})

	// B rests on top of A, turned a quarter around the vertical axis.
	xfB := translation(0, 0.95, 0)
	xfB.Set(mgl64.Vec3{0, 0.95, 0}, mgl64.Vec3{0, 1, 0}, 0.25*math.Pi)

	var raw box3d.B3RawManifold
	box3d.B3CollidePolyhedrons(&raw, boxA, translation(0, 0, 0), boxB, xfB, 0.0)

	var manifold box3d.B3Manifold
	box3d.B3ReduceManifold(&manifold, &raw)
	if manifold.PointCount != 4 {
		t.Fatalf("expected the 4 corners of the bottom face, got %d", manifold.PointCount)
	}
	assertNear(t, "normal y", manifold.Normal[1], 1.0, 1e-6)
	for i := 0; i < manifold.PointCount; i++ {
		assertNear(t, "penetration", manifold.Points[i].Penetration, 0.05, 1e-6)
	}
}

func TestDistanceBetweenBoxes(t *testing.T) {
	box := box3d.NewB3BoxShape(mgl64.Vec3{1, 1, 1})

	input := box3d.MakeB3DistanceInput()
	input.ProxyA.Set(box)
	input.ProxyB.Set(box)
	input.TransformA = translation(0, 0, 0)
	input.TransformB = translation(3, 0.5, 0)

	cache := box3d.MakeB3SimplexCache()
	var output box3d.B3DistanceOutput
	box3d.B3Distance(&output, &cache, &input)

	assertNear(t, "distance", output.Distance, 1.0, 1e-6)
	assertNear(t, "pointA x", output.PointA[0], 1.0, 1e-6)
	assertNear(t, "pointB x", output.PointB[0], 2.0, 1e-6)
}

func TestTestOverlapShapes(t *testing.T) {
	box := box3d.NewB3BoxShape(mgl64.Vec3{1, 1, 1})
	sphere := box3d.NewB3SphereShapeWithRadius(0.5)

	if !box3d.B3TestOverlapShapes(box, sphere, translation(0, 0, 0), translation(1.2, 0, 0)) {
		t.Fatalf("expected overlap")
	}
	if box3d.B3TestOverlapShapes(box, sphere, translation(0, 0, 0), translation(2, 0, 0)) {
		t.Fatalf("expected no overlap")
	}
}

func TestTimeOfImpactSphereThroughTriangle(t *testing.T) {
	settings := box3d.MakeB3Settings()
	sphere := box3d.NewB3SphereShapeWithRadius(0.5)
	triangle := box3d.NewB3TriangleShape(
		mgl64.Vec3{-5, 0, -5},
		mgl64.Vec3{5, 0, -5},
		mgl64.Vec3{0, 0, 5},
	)

	dt := 1.0 / 60.0
	input := box3d.MakeB3TOIInput(settings)
	input.ProxyA.Set(sphere)
	input.ProxyB.Set(triangle)
	input.SweepA = box3d.MakeB3Sweep(translation(0, 1, 0), mgl64.Vec3{0, -120, 0}, box3d.B3Vec3_zero, dt)
	input.SweepB = box3d.MakeB3Sweep(translation(0, 0, 0), box3d.B3Vec3_zero, box3d.B3Vec3_zero, dt)

	var output box3d.B3TOIOutput
	box3d.B3TimeOfImpact(&output, &input)

	if output.State != box3d.B3TOIOutput_State.E_touching {
		t.Fatalf("expected touching, got state %d", output.State)
	}
	if output.T <= 0.0 || output.T >= 1.0 {
		t.Fatalf("expected a time of impact in (0,1), got %v", output.T)
	}
	assertNear(t, "toi", output.T, (0.5-settings.LinearSlop)/2.0, 1e-3)
}

func TestTimeOfImpactAtRest(t *testing.T) {
	settings := box3d.MakeB3Settings()
	sphere := box3d.NewB3SphereShapeWithRadius(0.5)
	box := box3d.NewB3BoxShape(mgl64.Vec3{1, 1, 1})

	input := box3d.MakeB3TOIInput(settings)
	input.ProxyA.Set(sphere)
	input.ProxyB.Set(box)
	input.SweepA = box3d.MakeB3Sweep(translation(0, 3, 0), box3d.B3Vec3_zero, box3d.B3Vec3_zero, 1.0/60.0)
	input.SweepB = box3d.MakeB3Sweep(translation(0, 0, 0), box3d.B3Vec3_zero, box3d.B3Vec3_zero, 1.0/60.0)

	var output box3d.B3TOIOutput
	box3d.B3TimeOfImpact(&output, &input)

	if output.State != box3d.B3TOIOutput_State.E_separated || output.T != 1.0 {
		t.Fatalf("expected separated at 1, got state %d t %v", output.State, output.T)
	}
}

func TestTimeOfImpactSphereAboveTriangleAtRest(t *testing.T) {
	settings := box3d.MakeB3Settings()
	sphere := box3d.NewB3SphereShapeWithRadius(0.5)
	triangle := box3d.NewB3TriangleShape(
		mgl64.Vec3{-5, 0, -5},
		mgl64.Vec3{5, 0, -5},
		mgl64.Vec3{0, 0, 5},
	)

	dt := 1.0 / 60.0
	input := box3d.MakeB3TOIInput(settings)
	input.ProxyA.Set(sphere)
	input.ProxyB.Set(triangle)
	input.SweepA = box3d.MakeB3Sweep(translation(0, 1, 0), box3d.B3Vec3_zero, box3d.B3Vec3_zero, dt)
	input.SweepB = box3d.MakeB3Sweep(translation(0, 0, 0), box3d.B3Vec3_zero, box3d.B3Vec3_zero, dt)

	var output box3d.B3TOIOutput
	box3d.B3TimeOfImpact(&output, &input)

	if output.State != box3d.B3TOIOutput_State.E_separated || output.T != 1.0 {
		t.Fatalf("expected separated at 1, got state %d t %v", output.State, output.T)
	}
}
