// kisstool is a CLI utility for inspecting and exporting the KISS surface
// mesh and the stereo camera.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/Faultbox/kiss-anaglyph/internal/engine/camera"
	"github.com/Faultbox/kiss-anaglyph/internal/surface"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "frustum":
		cmdFrustum(args)
	case "export", "stl":
		cmdExport(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`kisstool - KISS surface and stereo camera utility

Usage:
  kisstool <command> [options]

Commands:
  info    [-u N] [-z N]                      Show mesh counts, bounds and normal stats
  frustum [-sep S] [-conv C] [-fov DEG] ...  Print both eye frustums
  export  [-u N] [-z N] <out.stl>            Write the mesh as binary STL

Examples:
  kisstool info -u 64 -z 64
  kisstool frustum -sep 0.1 -conv 8
  kisstool export -u 128 -z 128 kiss.stl`)
}

// gridFlags registers the grid options shared by info and export.
func gridFlags(fs *flag.FlagSet) *surface.Grid {
	g := surface.DefaultGrid(32, 32)
	fs.IntVar(&g.USegments, "u", g.USegments, "Segments along u")
	fs.IntVar(&g.ZSegments, "z", g.ZSegments, "Segments along z")
	fs.Float64Var(&g.ZMin, "zmin", g.ZMin, "Lower z bound")
	fs.Float64Var(&g.ZMax, "zmax", g.ZMax, "Upper z bound (at most 1)")
	return &g
}

func tessellate(g surface.Grid) *surface.Mesh {
	mesh, err := surface.Tessellate(g)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return mesh
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	g := gridFlags(fs)
	fs.Parse(args)

	mesh := tessellate(*g)

	zero := 0
	minLen, maxLen := math.Inf(1), 0.0
	for _, v := range mesh.Vertices {
		n := v.Normal
		l := math.Sqrt(float64(n[0]*n[0] + n[1]*n[1] + n[2]*n[2]))
		if l == 0 {
			zero++
			continue
		}
		minLen = math.Min(minLen, l)
		maxLen = math.Max(maxLen, l)
	}

	b := mesh.Bounds
	fmt.Printf("Grid:      %d x %d  (u [%.4f, %.4f], z [%.4f, %.4f])\n",
		g.USegments, g.ZSegments, g.UMin, g.UMax, g.ZMin, g.ZMax)
	fmt.Printf("Vertices:  %d\n", len(mesh.Vertices))
	fmt.Printf("Indices:   %d\n", len(mesh.Indices))
	fmt.Printf("Triangles: %d (%d non-degenerate)\n", mesh.TriangleCount(), len(mesh.Triangles()))
	fmt.Printf("Bounds:    min (%.4f, %.4f, %.4f)\n", b.Min[0], b.Min[1], b.Min[2])
	fmt.Printf("           max (%.4f, %.4f, %.4f)\n", b.Max[0], b.Max[1], b.Max[2])
	fmt.Println()
	fmt.Println("Normals:")
	fmt.Printf("  zero:    %d\n", zero)
	if zero < len(mesh.Vertices) {
		fmt.Printf("  length:  [%.6f, %.6f]\n", minLen, maxLen)
	}
}

func cmdFrustum(args []string) {
	p := camera.DefaultStereoParams(16.0 / 9.0)
	fovDeg := float64(p.FOV) * 180 / math.Pi

	fs := flag.NewFlagSet("frustum", flag.ExitOnError)
	sep := fs.Float64("sep", float64(p.EyeSeparation), "Eye separation")
	conv := fs.Float64("conv", float64(p.Convergence), "Convergence distance")
	aspect := fs.Float64("aspect", float64(p.AspectRatio), "Aspect ratio (width / height)")
	fov := fs.Float64("fov", fovDeg, "Vertical field of view, degrees")
	near := fs.Float64("near", float64(p.Near), "Near clip")
	far := fs.Float64("far", float64(p.Far), "Far clip")
	fs.Parse(args)

	p = camera.StereoParams{
		EyeSeparation: float32(*sep),
		Convergence:   float32(*conv),
		AspectRatio:   float32(*aspect),
		FOV:           float32(*fov * math.Pi / 180),
		Near:          float32(*near),
		Far:           float32(*far),
	}
	if err := p.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Separation %.4f  Convergence %.4f  Aspect %.4f  FOV %.2f°  Near %.4f  Far %.4f\n",
		p.EyeSeparation, p.Convergence, p.AspectRatio, *fov, p.Near, p.Far)
	fmt.Println()
	fmt.Printf("%-6s %10s %10s %10s %10s %8s\n", "eye", "left", "right", "bottom", "top", "offset")
	for _, eye := range []camera.Eye{camera.LeftEye, camera.RightEye} {
		f := p.Frustum(eye)
		fmt.Printf("%-6s %10.5f %10.5f %10.5f %10.5f %8.4f\n",
			eye, f.Left, f.Right, f.Bottom, f.Top, p.EyeOffset(eye))
	}
}

func cmdExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	g := gridFlags(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: kisstool export [-u N] [-z N] <out.stl>")
		os.Exit(1)
	}
	out := fs.Arg(0)

	mesh := tessellate(*g)
	if err := mesh.SaveSTL(out); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d triangles to %s\n", len(mesh.Triangles()), out)
}
