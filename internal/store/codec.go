package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"fjacquet/expense-app/internal/models"
)

// codec converts a RuleSet to and from its on-disk form.
type codec interface {
	Marshal(rs models.RuleSet) ([]byte, error)
	Unmarshal(data []byte) (models.RuleSet, error)
}

type jsonCodec struct{}

func (jsonCodec) Marshal(rs models.RuleSet) ([]byte, error) {
	data, err := json.MarshalIndent(rs, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (jsonCodec) Unmarshal(data []byte) (models.RuleSet, error) {
	rs := models.NewRuleSet()
	if len(bytes.TrimSpace(data)) == 0 {
		return rs, nil
	}
	if err := json.Unmarshal(data, &rs); err != nil {
		return models.RuleSet{}, err
	}
	rs.Normalize()
	return rs, nil
}

type yamlCodec struct{}

func (yamlCodec) Marshal(rs models.RuleSet) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(rs); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (yamlCodec) Unmarshal(data []byte) (models.RuleSet, error) {
	rs := models.NewRuleSet()
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return models.RuleSet{}, err
	}
	rs.Normalize()
	return rs, nil
}

// codecFor picks the codec from the file extension.
func codecFor(path string) (codec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return jsonCodec{}, nil
	case ".yaml", ".yml":
		return yamlCodec{}, nil
	default:
		return nil, fmt.Errorf("unsupported rules file extension %q (use .json, .yaml or .yml)", filepath.Ext(path))
	}
}
