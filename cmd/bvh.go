package cmd

import (
	"context"
	"fmt"
	"math"

	"github.com/urfave/cli"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/geometry"
	"github.com/df07/go-bvh-raytracer/pkg/scene"
)

// InspectBVH builds the BVH of a scene and prints its statistics, optionally
// the boxes of one level, and optionally checks it against linear search.
func InspectBVH(ctx *cli.Context) error {
	setupLogging(ctx)

	s, err := loadScene(context.Background(), ctx.Args().First(), ctx.StringSlice("mesh"))
	if err != nil {
		logger.Error(err)
		return err
	}

	displayBVHStats(ctx.App.Writer, s.Name, s.BVH.Stats())

	if ctx.IsSet("level") {
		level := ctx.Int("level")
		boxes := s.BVH.BoxesAtLevel(level)
		if len(boxes) == 0 {
			logger.Warningf("level %d is empty; the tree has %d levels", level, s.BVH.Levels())
		} else {
			displayBoxes(ctx.App.Writer, level, boxes)
		}
	}

	if rays := ctx.Int("verify"); rays > 0 {
		mismatches := verifyBVH(s, rays, ctx.Uint64("seed"))
		if mismatches > 0 {
			err := fmt.Errorf("%d of %d rays: %w", mismatches, rays, ErrBVHMismatch)
			logger.Error(err)
			return err
		}
		logger.Noticef("BVH matches linear search on %d rays", rays)
	}
	return nil
}

// verifyBVH fires random rays from around the scene bounds and counts those
// whose nearest triangle hit differs between the BVH and linear search
func verifyBVH(s *scene.Scene, rays int, seed uint64) int {
	sampler := core.NewSeededSampler(seed)
	bounds := s.BVH.Bounds()
	if bounds.IsEmpty() {
		return 0
	}
	center := bounds.Center()
	extent := bounds.Size().Multiply(0.75).Add(core.NewVec3(1, 1, 1))

	mismatches := 0
	for n := 0; n < rays; n++ {
		origin := center.Add(core.NewVec3(
			(2*sampler.Get1D()-1)*extent.X,
			(2*sampler.Get1D()-1)*extent.Y,
			(2*sampler.Get1D()-1)*extent.Z,
		))
		direction := core.NewVec3(2*sampler.Get1D()-1, 2*sampler.Get1D()-1, 2*sampler.Get1D()-1).Normalize()
		if direction.IsZero() {
			continue
		}

		bvhRay := core.NewRay(origin, direction)
		linearRay := bvhRay
		bvhHit, linearHit := geometry.NoHit(), geometry.NoHit()

		foundBVH := s.BVH.Intersect(&bvhRay, &bvhHit)
		foundLinear := geometry.IntersectMeshes(s.Meshes, &linearRay, &linearHit)

		switch {
		case foundBVH != foundLinear:
			mismatches++
		case foundBVH && math.Abs(bvhRay.T-linearRay.T) > 1e-9:
			mismatches++
		}
	}
	return mismatches
}
