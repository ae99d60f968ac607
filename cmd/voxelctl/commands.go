package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/annel0/voxelly/internal/config"
	"github.com/annel0/voxelly/internal/edit"
	"github.com/annel0/voxelly/internal/logging"
	"github.com/annel0/voxelly/internal/mesh"
	"github.com/annel0/voxelly/internal/observability"
	"github.com/annel0/voxelly/internal/raycast"
	"github.com/annel0/voxelly/internal/storage"
	"github.com/annel0/voxelly/internal/vec"
	"github.com/annel0/voxelly/internal/world"
	"github.com/annel0/voxelly/internal/world/block"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

type app struct {
	cfg     *config.Config
	metrics *observability.Metrics
	log     *logging.Logger
	out     io.Writer
}

type editOptions struct {
	ray   string
	tool  string
	shape string
	brush int
	block string
	from  string
}

func (a *app) run(ctx context.Context, command string, opts editOptions) error {
	switch command {
	case "new":
		return a.cmdNew(ctx)
	case "info":
		return a.cmdInfo(ctx)
	case "mesh":
		return a.cmdMesh(ctx)
	case "ray":
		return a.cmdRay(ctx, opts)
	case "edit":
		return a.cmdEdit(ctx, opts)
	case "export":
		return a.cmdExport(ctx)
	case "import":
		return a.cmdImport(ctx)
	case "list":
		return a.cmdList(ctx)
	}
	return fmt.Errorf("неизвестная команда %q", command)
}

func (a *app) fileOptions() storage.FileOptions {
	return storage.FileOptions{Compress: a.cfg.World.Compress, Metrics: a.metrics}
}

func (a *app) load(ctx context.Context) (*world.World, string, error) {
	asset, err := storage.LoadFromFile(ctx, a.cfg.World.GetFile(), a.metrics)
	if err != nil {
		return nil, "", err
	}
	return asset.ToWorld(), asset.Name, nil
}

func (a *app) cmdNew(ctx context.Context) error {
	name := a.cfg.World.Name
	if name == "" {
		name = "world-" + uuid.NewString()[:8]
	}

	w := world.NewWorld()
	gen := world.NewGenerator(a.cfg.World.Seed)
	placed := gen.Generate(w, 0, 0, a.cfg.World.SizeX, a.cfg.World.SizeZ)
	a.log.Info("🌍 сгенерирован мир %q: %d чанков, %d блоков", name, w.ChunkCount(), placed)

	if err := storage.SaveWorld(ctx, a.cfg.World.GetFile(), name, w, a.fileOptions()); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "created %s -> %s (%d chunks)\n", name, a.cfg.World.GetFile(), w.ChunkCount())
	return nil
}

func (a *app) cmdInfo(ctx context.Context) error {
	w, name, err := a.load(ctx)
	if err != nil {
		return err
	}

	counts := make(map[block.BlockID]int)
	w.ForEachChunk(func(_ world.ChunkKey, c *world.Chunk) bool {
		for _, id := range c.Data() {
			if !id.IsAir() {
				counts[id]++
			}
		}
		return true
	})

	fmt.Fprintf(a.out, "world:  %s\nchunks: %d\nblocks: %d\n", name, w.ChunkCount(), w.BlockCount())
	ids := make([]int, 0, len(counts))
	for id := range counts {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	for _, id := range ids {
		fmt.Fprintf(a.out, "  %-10s %d\n", block.Name(block.BlockID(id)), counts[block.BlockID(id)])
	}
	return nil
}

func (a *app) cmdMesh(ctx context.Context) error {
	w, name, err := a.load(ctx)
	if err != nil {
		return err
	}

	cache := mesh.NewCache(
		mesh.WithWorkers(a.cfg.Mesh.GetWorkers()),
		mesh.WithMetrics(a.metrics),
		mesh.WithLogger(a.log),
	)
	defer cache.Close()

	stats := cache.Update(w)
	vertices := 0
	for _, key := range w.Chunks() {
		if m, ok := cache.Get(key); ok {
			vertices += m.VertexCount()
		}
	}
	fmt.Fprintf(a.out, "world %s: %d meshes, %d faces, %d vertices\n", name, stats.Rebuilt, stats.Faces, vertices)
	return nil
}

func (a *app) cmdRay(ctx context.Context, opts editOptions) error {
	w, _, err := a.load(ctx)
	if err != nil {
		return err
	}
	ray, err := parseRay(opts.ray)
	if err != nil {
		return err
	}

	hit, kind, ok := a.pick(w, ray)
	if !ok {
		fmt.Fprintln(a.out, "no hit")
		return nil
	}
	fmt.Fprintf(a.out, "%s hit %v side %v distance %.3f block %s\n",
		kind, hit.Block, hit.Side, hit.Distance, w.GetBlockAt(hit.Block))
	return nil
}

// pick ищет блок под лучом, а при промахе точку на плоскости y=0
func (a *app) pick(w *world.World, ray raycast.Ray) (raycast.RayHit, string, bool) {
	maxDist := a.cfg.Query.MaxRayDistance
	if hit, ok := w.FindRayHitBlock(ray, maxDist); ok {
		return hit, "block", true
	}
	if hit, ok := w.FindRayHitYPlane(ray, maxDist, 0); ok {
		return hit, "ground", true
	}
	return raycast.RayHit{}, "", false
}

func (a *app) cmdEdit(ctx context.Context, opts editOptions) error {
	w, name, err := a.load(ctx)
	if err != nil {
		return err
	}
	cmd, err := a.buildCommand(w, opts)
	if err != nil {
		return err
	}

	before := w.BlockCount()
	if err := edit.Apply(w, cmd); err != nil {
		return err
	}
	a.log.Info("✏️ %s: блоков было %d, стало %d", cmd.Tool, before, w.BlockCount())

	if err := storage.SaveWorld(ctx, a.cfg.World.GetFile(), name, w, a.fileOptions()); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s applied at %v, blocks %d -> %d\n", cmd.Tool, cmd.Hit.Block, before, w.BlockCount())
	return nil
}

func (a *app) buildCommand(w *world.World, opts editOptions) (edit.Command, error) {
	tool, err := edit.ParseTool(opts.tool)
	if err != nil {
		return edit.Command{}, err
	}
	id, err := parseBlock(opts.block)
	if err != nil {
		return edit.Command{}, err
	}
	if opts.brush < 0 || opts.brush > a.cfg.Query.MaxBrushSize {
		return edit.Command{}, fmt.Errorf("размер кисти %d вне [0, %d]", opts.brush, a.cfg.Query.MaxBrushSize)
	}
	ray, err := parseRay(opts.ray)
	if err != nil {
		return edit.Command{}, err
	}
	hit, _, ok := a.pick(w, ray)
	if !ok {
		return edit.Command{}, fmt.Errorf("луч ни во что не попал")
	}

	cmd := edit.Command{
		Tool:  tool,
		Shape: edit.ShapeSphere,
		Size:  opts.brush,
		Block: id,
		Hit:   hit,
	}
	if opts.shape == "cube" {
		cmd.Shape = edit.ShapeCube
	}

	if tool == edit.ToolLine || tool == edit.ToolMove {
		from, err := parseVec(opts.from)
		if err != nil {
			return edit.Command{}, fmt.Errorf("-from: %w", err)
		}
		cmd.LineStart = from
		cmd.MoveStart = from
		if tool == edit.ToolMove {
			cmd.Region = w.ConnectedVoxels(from)
		}
	}
	return cmd, nil
}

func (a *app) openStorage() (*storage.WorldStorage, error) {
	return storage.NewWorldStorage(a.cfg.World.GetDataDir(), a.metrics)
}

func (a *app) cmdExport(ctx context.Context) error {
	asset, err := storage.LoadFromFile(ctx, a.cfg.World.GetFile(), a.metrics)
	if err != nil {
		return err
	}
	if a.cfg.World.Name != "" {
		asset.Name = a.cfg.World.Name
	}

	ws, err := a.openStorage()
	if err != nil {
		return err
	}
	defer ws.Close()

	if err := ws.SaveWorld(ctx, asset); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "exported %s (%d chunks) to %s\n", asset.Name, len(asset.Chunks), a.cfg.World.GetDataDir())
	return nil
}

func (a *app) cmdImport(ctx context.Context) error {
	if a.cfg.World.Name == "" {
		return fmt.Errorf("для import нужно имя мира (-name)")
	}
	ws, err := a.openStorage()
	if err != nil {
		return err
	}
	defer ws.Close()

	asset, err := ws.LoadWorld(ctx, a.cfg.World.Name)
	if err != nil {
		return err
	}
	if err := storage.SaveToFile(ctx, a.cfg.World.GetFile(), asset, a.fileOptions()); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "imported %s (%d chunks) to %s\n", asset.Name, len(asset.Chunks), a.cfg.World.GetFile())
	return nil
}

func (a *app) cmdList(ctx context.Context) error {
	ws, err := a.openStorage()
	if err != nil {
		return err
	}
	defer ws.Close()

	names, err := ws.ListWorlds(ctx)
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Fprintln(a.out, n)
	}
	return nil
}

func parseFloats(s string) ([3]float32, error) {
	var out [3]float32
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return out, fmt.Errorf("ожидалось три числа через запятую: %q", s)
	}
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return out, fmt.Errorf("некорректное число %q: %w", p, err)
		}
		out[i] = float32(f)
	}
	return out, nil
}

// parseRay разбирает "ox,oy,oz:dx,dy,dz"
func parseRay(s string) (raycast.Ray, error) {
	origin, dir, ok := strings.Cut(s, ":")
	if !ok {
		return raycast.Ray{}, fmt.Errorf("луч задаётся как ox,oy,oz:dx,dy,dz, получено %q", s)
	}
	o, err := parseFloats(origin)
	if err != nil {
		return raycast.Ray{}, err
	}
	d, err := parseFloats(dir)
	if err != nil {
		return raycast.Ray{}, err
	}
	if d == [3]float32{} {
		return raycast.Ray{}, fmt.Errorf("нулевое направление луча")
	}
	return raycast.NewRay(mgl32.Vec3(o), mgl32.Vec3(d)), nil
}

func parseVec(s string) (vec.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return vec.Zero, fmt.Errorf("ожидалось x,y,z: %q", s)
	}
	var v [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return vec.Zero, fmt.Errorf("некорректная координата %q: %w", p, err)
		}
		v[i] = n
	}
	return vec.New(v[0], v[1], v[2]), nil
}

func parseBlock(s string) (block.BlockID, error) {
	if id, ok := block.Lookup(s); ok {
		return id, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 255 {
		return 0, fmt.Errorf("неизвестный блок %q", s)
	}
	return block.BlockID(n), nil
}
