package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/df07/go-photon-raytracer/pkg/accel"
	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/df07/go-photon-raytracer/pkg/integrator"
	"github.com/df07/go-photon-raytracer/pkg/photon"
	"github.com/df07/go-photon-raytracer/pkg/renderer"
)

type accelResult struct {
	stats     accel.Stats
	buildTime time.Duration
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader(header)
	return table
}

func formatColor(c core.Vec3) string {
	return fmt.Sprintf("%.4g %.4g %.4g", c.X, c.Y, c.Z)
}

func displayAccelStats(w io.Writer, results []accelResult) {
	table := newTable(w, []string{"Structure", "Primitives", "Nodes", "Leaves", "Max depth", "Avg leaf depth", "References", "Build time"})
	for _, result := range results {
		stats := result.stats
		table.Append([]string{
			string(stats.Kind),
			fmt.Sprintf("%d", stats.Primitives),
			fmt.Sprintf("%d", stats.Nodes),
			fmt.Sprintf("%d", stats.Leaves),
			fmt.Sprintf("%d", stats.MaxDepth),
			fmt.Sprintf("%.2f", stats.AvgLeafDepth),
			fmt.Sprintf("%d", stats.StoredReferences),
			result.buildTime.String(),
		})
	}
	table.Render()
}

func displayPhotonStats(w io.Writer, r *integrator.PhotonMappingRenderer, options integrator.PhotonOptions) {
	stats := r.Stats()
	table := newTable(w, []string{"Map", "Photons", "Total power", "Radius", "Multiplier"})
	appendMap := func(m *photon.Map, radius, multiplier float64) {
		table.Append([]string{
			m.Name(),
			fmt.Sprintf("%d", m.Len()),
			formatColor(m.TotalPower()),
			fmt.Sprintf("%g", radius),
			fmt.Sprintf("%g", multiplier),
		})
	}
	appendMap(r.DiffuseMap(), options.DiffuseRadius, options.DiffuseGatherMultiplier)
	appendMap(r.CausticMap(), options.SpecularRadius, options.SpecularGatherMultiplier)
	table.SetFooter([]string{"", fmt.Sprintf("%d", stats.DiffusePhotons+stats.CausticPhotons), "", "TOTAL", stats.Duration.String()})
	table.Render()
	fmt.Fprintf(w, "emitted %d photons, %d rejected by %d specular objects, caustics %s\n",
		stats.Emitted, stats.Rejected, stats.SpecularObjects, options.CausticPolicy)
}

func displayRenderStats(w io.Writer, stats renderer.RenderStats) {
	table := newTable(w, []string{"Size", "Samples", "Mean lum", "Median lum", "P99 lum", "Max lum", "Black pixels", "Row time", "P99 row time"})
	table.Append([]string{
		fmt.Sprintf("%dx%d", stats.Width, stats.Height),
		fmt.Sprintf("%d", stats.TotalSamples),
		fmt.Sprintf("%.4f", stats.MeanLuminance),
		fmt.Sprintf("%.4f", stats.MedianLuminance),
		fmt.Sprintf("%.4f", stats.P99Luminance),
		fmt.Sprintf("%.4f", stats.MaxLuminance),
		fmt.Sprintf("%d", stats.BlackPixels),
		stats.MeanRowTime.String(),
		stats.P99RowTime.String(),
	})
	table.SetFooter([]string{"", "", "", "", "", "", "", "TOTAL", stats.Duration.String()})
	table.Render()
}
