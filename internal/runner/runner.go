// Package runner sequences scenario effects through a driver and handles
// the capture-file record/compare workflow.
package runner

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/simwheel/ffbtrace/internal/device"
	"github.com/simwheel/ffbtrace/internal/scenario"
)

// StepOutput is the wire bytes one scenario step produced.
type StepOutput struct {
	Index   int
	Name    string
	Packets []string
}

// Play runs every step of the scenario through the driver and collects the
// per-step wire bytes. A failed step is logged and yields an empty packet
// list; it never aborts the rest of the run.
func Play(s *scenario.Scenario, drv device.Driver, log zerolog.Logger) []StepOutput {
	log.Info().Str("scenario", s.Name).Str("driver", drv.Name()).Msg("starting scenario")
	if s.Description != "" {
		log.Info().Msg(s.Description)
	}

	iterations := s.RepeatCount
	if s.LoopForever {
		log.Warn().Msg("infinite loop mode, interrupt to stop")
		iterations = math.MaxUint32
	}

	var outputs []StepOutput
	for iter := uint32(0); iter < iterations; iter++ {
		if !s.LoopForever {
			log.Info().Uint32("iteration", iter+1).Uint32("of", iterations).Msg("iteration")
		}

		for idx, step := range s.Steps {
			e := step.Effect
			log.Info().
				Int("step", idx+1).
				Str("effect", e.Label()).
				Uint32("durationMs", e.Duration()).
				Msg("playing step")

			packets, err := drv.ApplyEffect(&e)
			if err != nil {
				log.Warn().Err(err).Int("step", idx+1).Msg("effect failed, continuing with empty output")
				packets = nil
			}
			log.Info().Int("step", idx+1).Int("packets", len(packets)).Msg("step done")

			outputs = append(outputs, StepOutput{
				Index:   idx + 1,
				Name:    e.Label(),
				Packets: packets,
			})

			if err := drv.StopAllEffects(); err != nil {
				log.Warn().Err(err).Msg("stopping effects between steps")
			}
		}
	}

	log.Info().Str("scenario", s.Name).Msg("scenario completed")
	return outputs
}
