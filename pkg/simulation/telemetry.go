package simulation

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/lao-tseu-is-alive/go-boids-emergence/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-boids-emergence/pkg/geometry"
	"gonum.org/v1/gonum/stat"
)

// FrameStats summarises one frame of the flock.
type FrameStats struct {
	Frame       uint64  `csv:"frame"`
	Population  int     `csv:"population"`
	MeanSpeed   float64 `csv:"mean_speed"`
	SpeedStdDev float64 `csv:"speed_stddev"`
	// Polarization is |sum of unit headings| / n: 1 when every boid flies
	// the same way, near 0 for a disordered flock.
	Polarization float64 `csv:"polarization"`
	Agitated     int     `csv:"agitated"`

	AlignmentWeight  float64 `csv:"alignment_weight"`
	CohesionWeight   float64 `csv:"cohesion_weight"`
	SeparationWeight float64 `csv:"separation_weight"`
	PerceptionRadius float64 `csv:"perception_radius"`
}

// ComputeStats derives the frame statistics from the last Step of s.
func ComputeStats(s *behavior.SimulationState) FrameStats {
	fs := FrameStats{
		Frame:            s.Frame,
		Population:       len(s.Render),
		AlignmentWeight:  s.Params.AlignmentWeight,
		CohesionWeight:   s.Params.CohesionWeight,
		SeparationWeight: s.Params.SeparationWeight,
		PerceptionRadius: s.Params.PerceptionRadius,
	}
	if len(s.Render) == 0 {
		return fs
	}

	speeds := make([]float64, len(s.Render))
	var headings geometry.Vector2D
	for i, r := range s.Render {
		speeds[i] = r.Speed
		if r.Speed > 0 {
			headings = headings.Add(geometry.NewVectorPolar(1, r.Heading))
		}
		if r.Agitated {
			fs.Agitated++
		}
	}
	fs.MeanSpeed = stat.Mean(speeds, nil)
	if len(speeds) > 1 {
		fs.SpeedStdDev = stat.StdDev(speeds, nil)
	}
	fs.Polarization = headings.Len() / float64(len(speeds))
	return fs
}

// Recorder appends FrameStats rows to a CSV file.
type Recorder struct {
	file          *os.File
	headerWritten bool
}

// NewRecorder creates dir if needed and opens dir/telemetry.csv for writing.
func NewRecorder(dir string) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating telemetry.csv: %w", err)
	}
	return &Recorder{file: f}, nil
}

// Write appends one row; the header goes out with the first row only.
func (r *Recorder) Write(stats FrameStats) error {
	records := []FrameStats{stats}
	if !r.headerWritten {
		if err := gocsv.Marshal(records, r.file); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		r.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, r.file); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (r *Recorder) Close() error {
	return r.file.Close()
}
