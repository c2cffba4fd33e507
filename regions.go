package mandel

import "sort"

// region builds a viewport from the axis ranges it covers.
func region(xmin, xmax, ymin, ymax float64) Viewport {
	return Viewport{
		UpperLeft:  complex(xmin, ymax),
		LowerRight: complex(xmax, ymin),
	}
}

// Classic regions / landmarks in the Mandelbrot set
var (
	// Full – the whole set with a little margin
	Full = region(-2.0, 1.0, -1.0, 1.0)

	// Seahorse Valley – dense filaments and repeating “seahorse” curls
	SeahorseValley = region(-0.8, -0.7, 0.05, 0.15)

	// Elephant Valley – large bulb with trunk-like tendrils
	ElephantValley = region(0.25, 0.35, -0.05, 0.05)

	// Spiral Minibrot – small Mandelbrot copy with tight spiral arms
	SpiralMinibrot = region(-0.7435, -0.7420, 0.1310, 0.1325)

	// Triple Spiral – threefold symmetric spiral structure
	TripleSpiral = region(-0.7480, -0.7450, 0.0950, 0.0980)

	// Valley of the Dragon – deep, highly detailed spiral filaments
	ValleyOfTheDragon = region(-0.7400, -0.7350, 0.1800, 0.1850)

	// Minibrot in a Mini-Spiral – self-similar Mandelbrot copy inside a spiral arm
	MinibrotInMiniSpiral = region(-1.7390, -1.7375, -0.0235, -0.0220)
)

// Regions maps the names accepted by -region flags and the region query
// parameter to their viewports.
var Regions = map[string]Viewport{
	"full":                    Full,
	"seahorse-valley":         SeahorseValley,
	"elephant-valley":         ElephantValley,
	"spiral-minibrot":         SpiralMinibrot,
	"triple-spiral":           TripleSpiral,
	"valley-of-the-dragon":    ValleyOfTheDragon,
	"minibrot-in-mini-spiral": MinibrotInMiniSpiral,
}

// LookupRegion returns the named landmark viewport.
func LookupRegion(name string) (Viewport, bool) {
	v, ok := Regions[name]
	return v, ok
}

// RegionNames returns the known region names in sorted order.
func RegionNames() []string {
	names := make([]string, 0, len(Regions))
	for name := range Regions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
