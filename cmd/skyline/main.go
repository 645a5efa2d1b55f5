package main

import (
	"os"

	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "skyline"
	app.Usage = "bake image-based lighting from an HDR panorama and render a procedural city under it"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "scene, s",
			Usage: "scene description (JSON); defaults are used when omitted",
		},
		cli.StringFlag{
			Name:  "panorama, p",
			Usage: "Radiance .hdr panorama, overrides the scene file",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "view",
			Usage: "bake the panorama and open the interactive viewer",
			Description: `
Open a window, bake the environment, irradiance and prefiltered cubemaps and
the BRDF table on the GPU, then orbit the hero and the generated city.

Press R to reload the panorama and Escape to quit.`,
			Action: View,
		},
		{
			Name:  "bake",
			Usage: "bake lighting resources and report pass timings",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "software",
					Usage: "bake on the CPU instead of the GPU",
				},
				cli.BoolFlag{
					Name:  "verify",
					Usage: "read the GPU results back and compare them to a CPU bake",
				},
			},
			Action: Bake,
		},
		{
			Name:  "place",
			Usage: "generate the building field and print its statistics",
			Flags: []cli.Flag{
				cli.Uint64Flag{
					Name:  "seed",
					Usage: "override the placement seed",
				},
			},
			Action: Place,
		},
	}

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}
