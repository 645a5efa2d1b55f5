package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"skyline/config"
	"skyline/ibl"
	"skyline/placement"
	"skyline/renderer"
)

// loadScene reads the --scene file, or the defaults, and applies the
// --panorama override.
func loadScene(ctx *cli.Context) (*config.Scene, error) {
	cfg := config.DefaultScene()
	if path := ctx.GlobalString("scene"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}
	if p := ctx.GlobalString("panorama"); p != "" {
		cfg.Panorama = p
	}
	return &cfg, nil
}

func requirePanorama(cfg *config.Scene) error {
	if cfg.Panorama == "" {
		return fmt.Errorf("no panorama given: use --panorama or set it in the scene file")
	}
	return nil
}

func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// View opens the viewer and runs until the window is closed.
func View(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg, err := loadScene(ctx)
	if err == nil {
		err = requirePanorama(cfg)
	}
	if err != nil {
		logger.Error(err)
		return err
	}

	runCtx, cancel := interruptible()
	defer cancel()

	engine, err := renderer.New(*cfg)
	if err != nil {
		logger.Error(err)
		return err
	}
	defer engine.Destroy()

	if err := engine.Bake(runCtx); err != nil {
		logger.Error(err)
		return err
	}
	logger.Noticef("baked %s", cfg.Panorama)

	if err := engine.Run(runCtx); err != nil && err != context.Canceled {
		logger.Error(err)
		return err
	}
	return nil
}

// Bake runs the bake passes once and prints their timings.
func Bake(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg, err := loadScene(ctx)
	if err == nil {
		err = requirePanorama(cfg)
	}
	if err != nil {
		logger.Error(err)
		return err
	}

	runCtx, cancel := interruptible()
	defer cancel()

	if ctx.Bool("software") {
		res, err := softwareBake(runCtx, cfg)
		if err != nil {
			logger.Error(err)
			return err
		}
		writeTimings(os.Stdout, "software", res.Timings)
		return nil
	}

	engine, err := renderer.NewHeadless(*cfg)
	if err != nil {
		logger.Error(err)
		return err
	}
	defer engine.Destroy()

	if err := engine.Bake(runCtx); err != nil {
		logger.Error(err)
		return err
	}
	writeTimings(os.Stdout, "gpu", engine.Timings())

	if !ctx.Bool("verify") {
		return nil
	}

	gpu, err := engine.ReadBack()
	if err != nil {
		logger.Error(err)
		return err
	}
	cpu, err := softwareBake(runCtx, cfg)
	if err != nil {
		logger.Error(err)
		return err
	}
	writeDiffs(os.Stdout, gpu, cpu)
	return nil
}

func softwareBake(ctx context.Context, cfg *config.Scene) (*ibl.Result, error) {
	pano, err := ibl.LoadPanorama(ctx, cfg.Panorama)
	if err != nil {
		return nil, err
	}
	baker, err := ibl.NewBaker(cfg.Bake)
	if err != nil {
		return nil, err
	}
	return baker.Bake(ctx, pano)
}

// Place generates the building field and prints its statistics.
func Place(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg, err := loadScene(ctx)
	if err != nil {
		logger.Error(err)
		return err
	}
	if ctx.IsSet("seed") {
		cfg.Placement.Seed = ctx.Uint64("seed")
	}

	start := time.Now()
	instances, err := placement.Generate(cfg.Placement, nil, cfg.Mask())
	if err != nil {
		logger.Error(err)
		return err
	}
	logger.Infof("generated %d instances in %v", len(instances), time.Since(start))

	writeStats(os.Stdout, cfg.Placement, placement.Summarize(cfg.Placement, instances))
	return nil
}

// ── Tables ────────────────────────────────────────────────────────────────────

func writeTimings(w io.Writer, backend string, timings []ibl.Timing) {
	table := tablewriter.NewWriter(w)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Backend", "Pass", "Time"})

	var total time.Duration
	for _, t := range timings {
		table.Append([]string{backend, t.Pass, t.Duration.Round(time.Microsecond).String()})
		total += t.Duration
	}
	table.SetFooter([]string{"", "total", total.Round(time.Microsecond).String()})
	table.Render()
}

// writeDiffs prints the largest per-channel difference of every resource.
// The GPU stores half floats, so differences near 1e-3 of the value are
// expected.
func writeDiffs(w io.Writer, gpu, cpu *ibl.Result) {
	table := tablewriter.NewWriter(w)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Resource", "Size", "Max abs diff"})
	table.Append([]string{"Environment", fmt.Sprint(cpu.Env.Size), fmtDiff(gpu.Env.MaxAbsDiff(cpu.Env))})
	table.Append([]string{"Irradiance", fmt.Sprint(cpu.Irradiance.Size), fmtDiff(gpu.Irradiance.MaxAbsDiff(cpu.Irradiance))})
	table.Append([]string{"Prefilter", fmt.Sprint(cpu.Prefilter.Size), fmtDiff(gpu.Prefilter.MaxAbsDiff(cpu.Prefilter))})
	table.Append([]string{"BRDF LUT", fmt.Sprint(cpu.BRDF.Size), fmtDiff(gpu.BRDF.MaxAbsDiff(cpu.BRDF))})
	table.Render()
}

func fmtDiff(d float32) string {
	return fmt.Sprintf("%.6f", d)
}

func writeStats(w io.Writer, p placement.Params, st placement.Stats) {
	table := tablewriter.NewWriter(w)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Statistic", "Value"})
	table.Append([]string{"Seed", fmt.Sprint(p.Seed)})
	table.Append([]string{"Cells", fmt.Sprint(st.Cells)})
	table.Append([]string{"Buildings", fmt.Sprint(st.Count)})
	if st.Cells > 0 {
		table.Append([]string{"Fill", fmt.Sprintf("%.2f%%", 100*float64(st.Count)/float64(st.Cells))})
	}
	table.Append([]string{"Min height", fmt.Sprintf("%.3f", st.MinHeight)})
	table.Append([]string{"Mean height", fmt.Sprintf("%.3f", st.MeanHeight)})
	table.Append([]string{"Max height", fmt.Sprintf("%.3f", st.MaxHeight)})
	table.Render()
}
