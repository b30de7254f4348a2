package renderer

import (
	"time"

	"github.com/montanaflynn/stats"
	"go.uber.org/multierr"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Width, Height   int
	TotalSamples    int           // Camera rays traced
	Duration        time.Duration // Wall time of the render
	MeanLuminance   float64       // Over linear pixel colors
	MedianLuminance float64
	P99Luminance    float64
	MaxLuminance    float64
	BlackPixels     int           // Pixels with no light at all
	MeanRowTime     time.Duration // Average time to render one row
	P99RowTime      time.Duration
}

// summarize fills the luminance and row timing fields from per-pixel
// luminances and per-row durations in seconds
func (rs *RenderStats) summarize(luminances, rowSeconds []float64) error {
	for _, l := range luminances {
		if l == 0 {
			rs.BlackPixels++
		}
	}
	if len(luminances) == 0 {
		return nil
	}

	var err, e error
	rs.MeanLuminance, e = stats.Mean(luminances)
	err = multierr.Append(err, e)
	rs.MedianLuminance, e = stats.Median(luminances)
	err = multierr.Append(err, e)
	rs.P99Luminance, e = stats.Percentile(luminances, 99)
	err = multierr.Append(err, e)
	rs.MaxLuminance, e = stats.Max(luminances)
	err = multierr.Append(err, e)

	if len(rowSeconds) > 0 {
		mean, e := stats.Mean(rowSeconds)
		err = multierr.Append(err, e)
		p99, e := stats.Percentile(rowSeconds, 99)
		err = multierr.Append(err, e)
		rs.MeanRowTime = time.Duration(mean * float64(time.Second))
		rs.P99RowTime = time.Duration(p99 * float64(time.Second))
	}
	return err
}
