package arborist

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/verdant/internal/engine/octree"
	"github.com/Faultbox/verdant/pkg/math"
)

// PlacedPlant is one painted plant in the on-disk scene format. The spatial
// index is derived state and is rebuilt on load, so only category and
// transform are stored.
type PlacedPlant struct {
	Category  string         `yaml:"category"`
	Transform math.Transform `yaml:"transform"`
}

type sceneFile struct {
	Plants []PlacedPlant `yaml:"plants"`
}

// SaveScene writes every placed plant of every category to a YAML file,
// ordered by category then insertion order for stable diffs.
func (o *Orchestrator) SaveScene(path string) error {
	var file sceneFile
	for _, name := range o.categories() {
		o.trees[name].ForEach(func(r *octree.Record) bool {
			file.Plants = append(file.Plants, PlacedPlant{
				Category:  name,
				Transform: r.Transform,
			})
			return true
		})
	}
	sort.SliceStable(file.Plants, func(i, j int) bool {
		return file.Plants[i].Category < file.Plants[j].Category
	})

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(&file)
	if err != nil {
		return errors.Wrap(err, "encoding scene")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "writing scene %s", path)
	}
	o.log.Infow("scene saved", "path", path, "plants", len(file.Plants))
	return nil
}

// LoadScene replaces all tree contents with the plants from a scene file.
// Plants referencing categories missing from the store are skipped with a
// warning, as are plants with invalid transforms.
func (o *Orchestrator) LoadScene(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading scene %s", path)
	}
	var file sceneFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return errors.Wrapf(err, "parsing scene %s", path)
	}

	for name := range o.trees {
		o.trees[name] = octree.New(name, math.Vec3{}, 0, 0, o.log)
	}

	loaded, skipped := 0, 0
	for _, plant := range file.Plants {
		tree := o.trees[plant.Category]
		if tree == nil {
			o.log.Warnw("scene references unknown category",
				"category", plant.Category)
			skipped++
			continue
		}
		if _, err := tree.Insert(plant.Transform); err != nil {
			o.log.Warnw("scene plant rejected",
				"category", plant.Category, "error", err)
			skipped++
			continue
		}
		loaded++
	}

	for _, name := range o.categories() {
		o.dirty[name] = true
		o.memberCountChanged(name)
	}
	o.debugRedraw()
	o.log.Infow("scene loaded", "path", path, "plants", loaded, "skipped", skipped)
	return nil
}
