package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/taigrr/archipelago/pkg/actor"
	"github.com/taigrr/archipelago/pkg/game"
	"github.com/taigrr/archipelago/pkg/logging"
	"github.com/taigrr/archipelago/pkg/models"
)

func newExportCmd(root *rootOptions) *cobra.Command {
	var water bool
	cmd := &cobra.Command{
		Use:   "export <out.glb>",
		Short: "Write the generated islands to a GLB file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load(cmd)
			if err != nil {
				return err
			}
			world := game.NewWorld(cfg)

			meshes := append([]*models.Mesh(nil), world.Meshes()...)
			if water {
				meshes = append(meshes, world.Water.Mesh())
			}
			if err := models.WriteGLB(args[0], meshes...); err != nil {
				return err
			}

			tris := 0
			for _, m := range meshes {
				tris += m.TriangleCount()
			}
			logging.Info("exported",
				"path", filepath.Clean(args[0]),
				"meshes", len(meshes),
				"triangles", tris,
				"seed", world.Islands.Seed(),
			)
			return nil
		},
	}
	cmd.Flags().BoolVar(&water, "water", false, "include the ocean surface")
	return cmd
}

type snapshotOptions struct {
	width, height int
	frames        int
	debug         bool
	forward       bool
}

func newSnapshotCmd(root *rootOptions) *cobra.Command {
	opts := &snapshotOptions{}
	cmd := &cobra.Command{
		Use:   "snapshot <out.png>",
		Short: "Render one frame offscreen to a PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.width < 8 || opts.height < 8 {
				return fmt.Errorf("snapshot size %dx%d is too small", opts.width, opts.height)
			}
			cfg, err := root.load(cmd)
			if err != nil {
				return err
			}

			world := game.NewWorld(cfg)
			scene := game.NewScene(opts.width, opts.height, cfg.Play.FPS)
			scene.MapSize = cfg.Play.MapSize
			scene.Debug = opts.debug || cfg.Play.Debug
			scene.Snap(world)

			in := actor.Input{Forward: opts.forward}
			for range opts.frames {
				world.Step(in)
				scene.Track(world)
			}
			scene.Draw(world)

			if err := scene.FB.SavePNG(args[0]); err != nil {
				return fmt.Errorf("save snapshot: %w", err)
			}
			logging.Info("snapshot written",
				"path", args[0],
				"size", fmt.Sprintf("%dx%d", opts.width, opts.height),
				"frames", opts.frames,
				"culled", scene.Raster.CullingStats.MeshesCulled,
				"drawn", scene.Raster.CullingStats.MeshesDrawn,
			)
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&opts.width, "width", 320, "image width in pixels")
	f.IntVar(&opts.height, "height", 180, "image height in pixels")
	f.IntVar(&opts.frames, "frames", 90, "frames to simulate before capturing")
	f.BoolVar(&opts.debug, "debug", false, "draw the debug overlay")
	f.BoolVar(&opts.forward, "forward", false, "hold the throttle while simulating")
	return cmd
}

func newInspectCmd(root *rootOptions) *cobra.Command {
	var glb string
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Log statistics for each generated island",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load(cmd)
			if err != nil {
				return err
			}
			if glb != "" {
				return inspectGLB(glb)
			}
			world := game.NewWorld(cfg)
			placements := world.Islands.Placements()

			for i, is := range world.Islands.All() {
				b := is.Bounds()
				kv := []any{
					"slot", i,
					"id", is.ID,
					"seed", is.Seed(),
					"archetype", is.Archetype,
					"style", is.Style,
					"radius", fmt.Sprintf("%.2f", is.BaseRadius),
					"triangles", is.TriangleCount(),
					"treeHeight", is.TreeHeight(),
					"min", fmt.Sprintf("(%.1f, %.1f, %.1f)", b.Min.X, b.Min.Y, b.Min.Z),
					"max", fmt.Sprintf("(%.1f, %.1f, %.1f)", b.Max.X, b.Max.Y, b.Max.Z),
				}
				if i < len(placements) {
					kv = append(kv, "attempts", placements[i].Attempts, "exhausted", placements[i].Exhausted)
				}
				logging.With(kv...).Info("island")
			}
			logging.Info("world",
				"seed", world.Islands.Seed(),
				"islands", world.Islands.Count(),
				"bodies", len(world.Crowd.Bodies),
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&glb, "glb", "", "report on an exported GLB file instead of generating")
	return cmd
}

// inspectGLB loads an exported file and logs its size and extent.
func inspectGLB(path string) error {
	mesh, err := models.LoadGLB(path)
	if err != nil {
		return err
	}
	if mesh.TriangleCount() == 0 {
		return fmt.Errorf("%s: no triangles", path)
	}
	lo, hi := mesh.GetBounds()
	logging.Info("glb",
		"path", filepath.Clean(path),
		"vertices", mesh.VertexCount(),
		"triangles", mesh.TriangleCount(),
		"min", fmt.Sprintf("(%.1f, %.1f, %.1f)", lo.X, lo.Y, lo.Z),
		"max", fmt.Sprintf("(%.1f, %.1f, %.1f)", hi.X, hi.Y, hi.Z),
	)
	return nil
}
