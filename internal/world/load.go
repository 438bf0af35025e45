package world

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed brinmere.yaml
var brinmereYAML []byte

// Document mirrors the YAML world file. Scenes and choices are
// sequences so their document order survives decoding.
type document struct {
	Entry     string        `yaml:"entry"`
	Scenes    []sceneDoc    `yaml:"scenes"`
	Overrides []overrideDoc `yaml:"overrides"`
}

type sceneDoc struct {
	ID      string      `yaml:"id"`
	Title   string      `yaml:"title"`
	Desc    string      `yaml:"desc"`
	Choices []choiceDoc `yaml:"choices"`
}

type choiceDoc struct {
	ID          string      `yaml:"id"`
	Desc        string      `yaml:"desc"`
	ResultScene string      `yaml:"result_scene"`
	Effects     []effectDoc `yaml:"effects"`
}

type effectDoc struct {
	Journal   string `yaml:"journal"`
	Inventory string `yaml:"inventory"`
}

type overrideDoc struct {
	Scene  string       `yaml:"scene"`
	When   predicateDoc `yaml:"when"`
	Render string       `yaml:"render"`
}

type predicateDoc struct {
	JournalContains string `yaml:"journal_contains"`
	HasItem         string `yaml:"has_item"`
}

// LoadDefault loads the embedded Brinmere world.
func LoadDefault() (*Graph, error) {
	return Load(brinmereYAML)
}

// LoadFile loads a world document from disk, for authoring overrides.
func LoadFile(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read world file: %w", err)
	}
	return Load(data)
}

// Load decodes and validates a world document. Unknown fields anywhere
// in the document are decode errors, so a misspelled effect key fails
// here instead of being silently ignored at play time.
func Load(data []byte) (*Graph, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode world document: %w", err)
	}

	graph := &Graph{
		entry:  doc.Entry,
		scenes: make(map[string]*Scene, len(doc.Scenes)),
	}

	for _, sd := range doc.Scenes {
		if sd.ID == "" {
			return nil, fmt.Errorf("scene with empty id")
		}
		if _, exists := graph.scenes[sd.ID]; exists {
			return nil, fmt.Errorf("duplicate scene %q", sd.ID)
		}
		scene := &Scene{ID: sd.ID, Title: sd.Title, Desc: sd.Desc}
		for _, cd := range sd.Choices {
			effects, err := buildEffects(sd.ID, cd)
			if err != nil {
				return nil, err
			}
			scene.Choices = append(scene.Choices, Choice{
				ID:          cd.ID,
				Desc:        cd.Desc,
				ResultScene: cd.ResultScene,
				Effects:     effects,
			})
		}
		graph.scenes[sd.ID] = scene
	}

	for _, od := range doc.Overrides {
		graph.overrides = append(graph.overrides, OverrideRule{
			SceneID: od.Scene,
			When: Predicate{
				JournalContains: od.When.JournalContains,
				HasItem:         od.When.HasItem,
			},
			Render: od.Render,
		})
	}

	if err := graph.validate(); err != nil {
		return nil, fmt.Errorf("invalid world: %w", err)
	}
	return graph, nil
}

func buildEffects(sceneID string, cd choiceDoc) ([]Effect, error) {
	var effects []Effect
	for _, ed := range cd.Effects {
		switch {
		case ed.Journal != "" && ed.Inventory != "":
			return nil, fmt.Errorf("scene %q choice %q: effect declares both journal and inventory", sceneID, cd.ID)
		case ed.Journal != "":
			effects = append(effects, AppendJournal{Text: ed.Journal})
		case ed.Inventory != "":
			effects = append(effects, AddInventoryItem{Item: ed.Inventory})
		default:
			return nil, fmt.Errorf("scene %q choice %q: empty effect", sceneID, cd.ID)
		}
	}
	return effects, nil
}
