package cli

import (
	"context"
	"fmt"

	urfave "github.com/urfave/cli/v3"

	"github.com/ahesenov7-ai/paysphate.demo/internal/application/sequencer"
	"github.com/ahesenov7-ai/paysphate.demo/internal/infrastructure/messaging"
	"github.com/ahesenov7-ai/paysphate.demo/internal/infrastructure/random"
	"github.com/ahesenov7-ai/paysphate.demo/internal/infrastructure/scheduler"
)

// replayStepLimit bounds a replay; a full cycle needs far fewer callbacks.
const replayStepLimit = 1000

// Frame is one rendered view and the virtual time it was rendered at.
type Frame struct {
	AtMs int64          `json:"atMs" yaml:"atMs"`
	View sequencer.View `json:"view" yaml:"view"`
}

func (a *app) replayCmd() *urfave.Command {
	return &urfave.Command{
		Name:  "replay",
		Usage: "Run one demo cycle on a virtual clock and print every rendered view",
		Flags: transactionFlags(),
		Action: func(_ context.Context, cmd *urfave.Command) error {
			frames, err := a.replay(cmd)
			if err != nil {
				return err
			}
			return a.encode(frames)
		},
	}
}

func (a *app) replay(cmd *urfave.Command) ([]Frame, error) {
	clock := scheduler.NewManualScheduler()
	var frames []Frame
	renderer := sequencer.RendererFunc(func(v sequencer.View) {
		frames = append(frames, Frame{AtMs: clock.Now().Milliseconds(), View: v})
	})

	demo := sequencer.New(a.scorer, clock, random.New(a.seed), renderer,
		sequencer.WithLogger(a.logger),
		sequencer.WithPublisher(messaging.NewLogPublisher("paysphere.demo", a.logger)),
	)
	if err := demo.Open(); err != nil {
		return nil, err
	}
	if err := demo.Submit(formFromFlags(cmd)); err != nil {
		return nil, err
	}
	clock.RunUntilIdle(replayStepLimit)
	if clock.Pending() > 0 {
		demo.Stop()
		return nil, fmt.Errorf("replay did not settle within %d steps", replayStepLimit)
	}
	return frames, nil
}
