package ibl

import (
	"context"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"skyline/log"
)

// Timing records how long one bake pass took.
type Timing struct {
	Pass     string
	Duration time.Duration
}

// Result is the full set of baked lighting resources.
type Result struct {
	Env        *Cubemap
	Irradiance *Cubemap
	Prefilter  *Cubemap
	BRDF       *LUT
	Timings    []Timing
}

// Baker runs the reference passes on the CPU. Work inside a pass is split
// into independent tasks that write disjoint parts of the output, so the
// result does not depend on scheduling.
type Baker struct {
	opts   Options
	pool   worker.DynamicWorkerPool
	logger log.Logger

	samples []hemiSample
	timings []Timing
}

func NewBaker(opts Options) (*Baker, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	workers := opts.Workers
	if workers == 0 {
		workers = FaceCount
	}
	return &Baker{
		opts:    opts,
		pool:    worker.NewDynamicWorkerPool(workers, 256, time.Second),
		logger:  log.New("ibl"),
		samples: irradianceSamples(),
	}, nil
}

func (b *Baker) Options() Options {
	return b.opts
}

// Bake runs every pass in dependency order.
func (b *Baker) Bake(ctx context.Context, pano *Panorama) (*Result, error) {
	b.timings = b.timings[:0]

	env, err := b.Project(ctx, pano)
	if err != nil {
		return nil, err
	}
	irr, err := b.Irradiance(ctx, env)
	if err != nil {
		return nil, err
	}
	pre, err := b.Prefilter(ctx, env)
	if err != nil {
		return nil, err
	}
	lut, err := b.BRDF(ctx)
	if err != nil {
		return nil, err
	}
	return &Result{
		Env:        env,
		Irradiance: irr,
		Prefilter:  pre,
		BRDF:       lut,
		Timings:    append([]Timing(nil), b.timings...),
	}, nil
}

// Project renders the panorama into an environment cubemap and builds its
// mip chain.
func (b *Baker) Project(ctx context.Context, pano *Panorama) (*Cubemap, error) {
	env := NewCubemap(b.opts.EnvSize, b.opts.EnvMips())
	err := b.run(ctx, "project", FaceCount, func(i int) {
		projectFace(pano, env, CubeFace(i))
	})
	if err != nil {
		return nil, err
	}
	env.GenerateMips()
	return env, nil
}

func (b *Baker) Irradiance(ctx context.Context, env *Cubemap) (*Cubemap, error) {
	irr := NewCubemap(b.opts.IrradianceSize, 1)
	err := b.run(ctx, "irradiance", FaceCount, func(i int) {
		convolveFace(env, irr, b.samples, CubeFace(i))
	})
	if err != nil {
		return nil, err
	}
	return irr, nil
}

func (b *Baker) Prefilter(ctx context.Context, env *Cubemap) (*Cubemap, error) {
	pre := NewCubemap(b.opts.PrefilterSize, PrefilterMips)
	err := b.run(ctx, "prefilter", FaceCount*PrefilterMips, func(i int) {
		prefilterFace(env, pre, b.opts.SampleCount, i/FaceCount, CubeFace(i%FaceCount))
	})
	if err != nil {
		return nil, err
	}
	return pre, nil
}

// BRDF integrates the split-sum table in horizontal bands.
func (b *Baker) BRDF(ctx context.Context) (*LUT, error) {
	lut := NewLUT(b.opts.BRDFSize)
	bands := min(lut.Size, 16)
	rows := (lut.Size + bands - 1) / bands
	err := b.run(ctx, "brdf", bands, func(i int) {
		y0 := i * rows
		lut.fillRows(y0, min(y0+rows, lut.Size), b.opts.SampleCount)
	})
	if err != nil {
		return nil, err
	}
	return lut, nil
}

// run submits n tasks to the pool and waits for all of them. Tasks that
// have not started when ctx is cancelled are skipped.
func (b *Baker) run(ctx context.Context, pass string, n int, task func(i int)) error {
	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		id := i
		b.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				task(id)
				return nil, nil
			},
		})
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return err
	}

	d := time.Since(start)
	b.timings = append(b.timings, Timing{Pass: pass, Duration: d})
	b.logger.Infof("software %s pass: %d tasks in %v", pass, n, d)
	return nil
}
