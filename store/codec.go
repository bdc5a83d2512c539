package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/josephgoksu/TaskGraph/models"
	yaml "gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatTOML = "toml"
)

// normalizeFormat validates a record format name.
func normalizeFormat(format string) (string, error) {
	f := strings.ToLower(format)
	switch f {
	case formatJSON, formatYAML, formatTOML:
		return f, nil
	case "":
		return formatJSON, nil
	default:
		return "", fmt.Errorf("unsupported record format: %s. Supported formats are json, yaml, toml", format)
	}
}

// marshalRecord serializes a task in the given format. Records are kept
// indented and field-keyed so quarantined files stay human-diffable.
func marshalRecord(format string, task models.Task) ([]byte, error) {
	switch format {
	case formatJSON:
		return json.MarshalIndent(task, "", "  ")
	case formatYAML:
		return yaml.Marshal(task)
	case formatTOML:
		buf := new(bytes.Buffer)
		if err := toml.NewEncoder(buf).Encode(task); err != nil {
			return nil, fmt.Errorf("failed to marshal TOML: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported record format for saving: %s", format)
	}
}

// unmarshalRecord parses a record and validates its shape. A record that
// parses but fails struct validation is still treated as corrupt: the
// store never hands out a task that violates the model contract.
func unmarshalRecord(format string, data []byte) (models.Task, error) {
	var task models.Task
	var err error
	switch format {
	case formatJSON:
		err = json.Unmarshal(data, &task)
	case formatYAML:
		err = yaml.Unmarshal(data, &task)
	case formatTOML:
		err = toml.Unmarshal(data, &task)
	default:
		return models.Task{}, fmt.Errorf("unsupported record format for loading: %s", format)
	}
	if err != nil {
		return models.Task{}, err
	}
	if err := models.ValidateStruct(task); err != nil {
		return models.Task{}, fmt.Errorf("record failed validation: %w", err)
	}
	return task, nil
}
