package cmd

import (
	"math"

	"github.com/urfave/cli"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/transform"
)

// CompressTransforms fills one row of a transform table with a smooth
// remap plus noise, Haar-compresses it and prints the reconstruction error.
func CompressTransforms(ctx *cli.Context) error {
	setupLogging(ctx)

	size := ctx.Int("size")
	level := ctx.Int("level")
	epsilon := ctx.Float64("epsilon")

	table := transform.NewTable(1, size)
	if err := fillSampleRow(table, 0, ctx.Uint64("seed"), ctx.Float64("noise")); err != nil {
		logger.Error(err)
		return err
	}

	original, err := table.Row(0)
	if err != nil {
		logger.Error(err)
		return err
	}

	zeroed, err := compressRow(table, 0, level, epsilon)
	if err != nil {
		logger.Error(err)
		return err
	}

	reconstructed, err := table.Row(0)
	if err != nil {
		logger.Error(err)
		return err
	}

	displayTransformRow(ctx.App.Writer, original, reconstructed, zeroed)
	logger.Infof("%d of %d coefficients below %g dropped at level %d", zeroed, size, epsilon, level)
	return nil
}

// fillSampleRow sets every entry of row i to a slowly varying remap with
// uniform noise of the given amplitude
func fillSampleRow(table *transform.Table, i int, seed uint64, noise float64) error {
	sampler := core.NewSeededSampler(seed)
	jitter := func() float64 { return noise * (2*sampler.Get1D() - 1) }

	_, cols := table.Dims()
	for j := 0; j < cols; j++ {
		phase := 2 * math.Pi * float64(j) / float64(cols)
		entry := transform.Entry{
			Scale: core.NewVec3(
				1+0.25*math.Sin(phase)+jitter(),
				1+0.25*math.Cos(phase)+jitter(),
				1+jitter(),
			),
			Offset: core.NewVec3(0.05*math.Sin(phase)+jitter(), jitter(), 0),
		}
		if err := table.Set(i, j, entry); err != nil {
			return err
		}
	}
	return nil
}

// compressRow replaces row i with its Haar reconstruction after dropping
// detail coefficients smaller than epsilon. It returns the number dropped.
func compressRow(table *transform.Table, i, level int, epsilon float64) (int, error) {
	row, err := table.Row(i)
	if err != nil {
		return 0, err
	}

	coefficients, err := transform.Forward(row, level)
	if err != nil {
		return 0, err
	}

	kept, zeroed := transform.Threshold(coefficients, len(row)>>level, epsilon)
	reconstructed, err := transform.Inverse(kept, level)
	if err != nil {
		return 0, err
	}

	if err := table.SetRow(i, reconstructed); err != nil {
		return 0, err
	}
	return zeroed, nil
}
