// Package stageload loads game assets in stages.
//
// # Quick Start
//
// Build a pipeline over a fetcher, add steps, and run it:
//
//	p := stageload.NewPipeline(fetcher, stageload.WithConcurrency(8))
//	p.AddStep("sprites", stageload.LoadStep(
//	    stageload.Request{URL: "ship.png", Kind: stageload.KindImage},
//	))
//	p.AddStep("level", func(ctx context.Context, b *stageload.Batch) error {
//	    _, err := b.Text("/Levels/TestLevel.svg")
//	    return err
//	})
//	if err := p.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	img, _ := p.Store().Image("ship.png")
//
// # Staged Loader
//
// Loader implements the callback form of the same idea. Stages are plain
// functions; LoadResources fetches everything enqueued so far and calls
// Start when the round is complete:
//
//	l := stageload.NewLoader(fetcher)
//	_ = l.EnqueueImage("ship.png")
//	l.PushStage(l.LoadResources)
//	l.PushStage(func() { fmt.Println("loaded") })
//	l.Start()
//
// Completion of a round is gated by a Counter, which fires its callback
// once after a fixed number of Check calls.
//
// # Resources
//
// Results are stored by URL in a Store as either *Image or *Text. Ask for
// the kind you expect:
//
//	body, ok := store.Text("/Levels/TestLevel.svg")
//
// A second fetch of the same URL replaces the first.
//
// # Fetchers
//
// The Fetcher interface decouples loading from transport. The CLI wires
// HTTP, filesystem and embedded fetchers behind a fallback resolver.
package stageload
