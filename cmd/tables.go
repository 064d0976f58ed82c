package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/geometry"
	"github.com/df07/go-bvh-raytracer/pkg/renderer"
	"github.com/df07/go-bvh-raytracer/pkg/scene"
	"github.com/df07/go-bvh-raytracer/pkg/transform"
)

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader(header)
	return table
}

func displayRenderStats(w io.Writer, config renderer.Config, stats renderer.RenderStats) {
	table := newTable(w, []string{"Setting", "Value"})
	table.Append([]string{"Resolution", fmt.Sprintf("%dx%d", config.Width, config.Height)})
	table.Append([]string{"Max depth", fmt.Sprintf("%d", config.MaxDepth)})
	table.Append([]string{"Samples", fmt.Sprintf("%d", config.Samples)})
	table.Append([]string{"Shadow samples", fmt.Sprintf("%d", config.ShadowSamples)})
	table.Append([]string{"Seed", fmt.Sprintf("%d", config.Seed)})
	table.Append([]string{"Tiles", fmt.Sprintf("%d", stats.Tiles)})
	table.Append([]string{"Workers", fmt.Sprintf("%d", stats.Workers)})
	table.Append([]string{"Black pixels", fmt.Sprintf("%d / %d", stats.BlackPixels, stats.TotalPixels)})
	table.Append([]string{"Average luminance", fmt.Sprintf("%.4f", stats.AverageLuminance)})
	table.SetFooter([]string{"Render time", stats.Duration.Round(time.Millisecond).String()})
	table.Render()
}

func displaySceneList(w io.Writer, infos []scene.SceneInfo) {
	table := newTable(w, []string{"Scene", "Triangles", "Spheres", "Point lights", "Spherical lights", "Description"})
	for _, info := range infos {
		s := info.New()
		table.Append([]string{
			info.Name,
			fmt.Sprintf("%d", s.TriangleCount()),
			fmt.Sprintf("%d", len(s.Spheres)),
			fmt.Sprintf("%d", len(s.PointLights)),
			fmt.Sprintf("%d", len(s.SphericalLights)),
			info.Description,
		})
	}
	table.Render()
}

func displayBVHStats(w io.Writer, name string, stats geometry.BVHStats) {
	table := newTable(w, []string{"BVH", name})
	table.Append([]string{"Nodes", fmt.Sprintf("%d", stats.Nodes)})
	table.Append([]string{"Leaves", fmt.Sprintf("%d", stats.Leaves)})
	table.Append([]string{"Primitives", fmt.Sprintf("%d", stats.Primitives)})
	table.Append([]string{"Max depth", fmt.Sprintf("%d", stats.MaxDepth)})
	table.Append([]string{"Max leaf size", fmt.Sprintf("%d", stats.MaxLeafSize)})
	table.Append([]string{"Average leaf size", fmt.Sprintf("%.2f", stats.AverageLeafSize)})
	table.Append([]string{"Average leaf depth", fmt.Sprintf("%.2f", stats.AverageLeafDepth)})
	table.SetFooter([]string{"Build time", stats.BuildTime.String()})
	table.Render()
}

func displayBoxes(w io.Writer, level int, boxes []core.AABB) {
	table := newTable(w, []string{"#", fmt.Sprintf("Level %d min", level), "Max", "Surface area"})
	for i, box := range boxes {
		table.Append([]string{
			fmt.Sprintf("%d", i),
			formatVec3(box.Min),
			formatVec3(box.Max),
			fmt.Sprintf("%.4f", box.SurfaceArea()),
		})
	}
	table.Render()
}

func displayTransformRow(w io.Writer, original, reconstructed []transform.Entry, zeroed int) {
	table := newTable(w, []string{"#", "Original scale", "Original offset", "Reconstructed scale", "Reconstructed offset", "Error"})
	maxError := 0.0
	for i := range original {
		e := original[i].Subtract(reconstructed[i]).Magnitude()
		maxError = max(maxError, e)
		table.Append([]string{
			fmt.Sprintf("%d", i),
			formatVec3(original[i].Scale),
			formatVec3(original[i].Offset),
			formatVec3(reconstructed[i].Scale),
			formatVec3(reconstructed[i].Offset),
			fmt.Sprintf("%.2e", e),
		})
	}
	table.SetFooter([]string{"", "", "", fmt.Sprintf("%d coefficients zeroed", zeroed), "Max error", fmt.Sprintf("%.2e", maxError)})
	table.Render()
}

func formatVec3(v core.Vec3) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}
