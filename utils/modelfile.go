package utils

import (
	"fmt"
	"os"

	"eplus-sqlresult/models"

	"github.com/ghodss/yaml"
	log "github.com/sirupsen/logrus"
)

// ReadModelFile loads a model from a JSON or YAML file. Rooms without a
// multiplier get 1.
func ReadModelFile(path string) (models.Model, error) {
	var model models.Model

	body, err := os.ReadFile(path)
	if err != nil {
		log.Error(err)
		return model, models.NotFoundError("read model", "no model file was found at %s", path)
	}

	// yaml.Unmarshal accepts JSON as well, it converts YAML to JSON first
	if err := yaml.Unmarshal(body, &model); err != nil {
		log.Error(err)
		return model, models.FormatError("read model", "%s is not a valid model file: %v", path, err)
	}

	for i := range model.Rooms {
		if model.Rooms[i].Multiplier == 0 {
			model.Rooms[i].Multiplier = 1
		}
		if model.Rooms[i].Identifier == "" {
			return model, models.FormatError("read model", "room %d has no identifier", i)
		}
	}
	log.WithFields(log.Fields{"file": path, "rooms": len(model.Rooms)}).Debug("model loaded")
	return model, nil
}

// WriteModelFile writes model as YAML, or JSON when the extension is .json.
func WriteModelFile(path string, model models.Model) error {
	var body []byte
	var err error
	if len(path) > 5 && path[len(path)-5:] == ".json" {
		body, err = jsonMarshal(model)
	} else {
		body, err = yaml.Marshal(model)
	}
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	return os.WriteFile(path, body, 0644)
}
