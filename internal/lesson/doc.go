// Package lesson replays the introductory matrix walkthrough end to end.
//
// A run creates and prints small arrays, checks elementwise results against
// gonum, loads two photos as (height, width, 3) uint8 arrays, blends and
// slices them, adds noise, and builds solid color squares. Every image the
// run produces is written to the configured output directory and listed in
// the step's Report.
//
// Settings come from a YAML file:
//
//	cfg, err := lesson.LoadConfig("lesson.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	reports, err := lesson.NewRunner(nil, debug).Run(ctx, cfg)
package lesson
