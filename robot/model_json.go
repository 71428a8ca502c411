package robot

import (
	"encoding/json"
	"math"
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"
)

// ErrNoModelInformation is used when there is no model information.
var ErrNoModelInformation = errors.New("no model information")

// ModelConfig represents all supported fields in a robot model JSON file.
type ModelConfig struct {
	Name        string              `json:"name"`
	Joints      []JointConfig       `json:"joints"`
	Groups      map[string][]string `json:"groups,omitempty"`
	VirtualBase *VirtualBaseConfig  `json:"virtual_base,omitempty"`
}

// JointConfig contains all json fields needed to specify a joint. Limits are
// in radians for revolute joints and meters for prismatic joints.
type JointConfig struct {
	ID   string  `json:"id"`
	Type string  `json:"type,omitempty"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// TranslationConfig is the json representation of a translation.
type TranslationConfig struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// QuaternionConfig is the json representation of an orientation quaternion.
type QuaternionConfig struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// VirtualBaseConfig contains all json fields needed to specify the virtual
// base transform between the world and the model root.
type VirtualBaseConfig struct {
	ID          string            `json:"id"`
	Translation TranslationConfig `json:"translation"`
	Quaternion  QuaternionConfig  `json:"quaternion"`
}

// UnmarshalModelJSON will parse the given JSON data into a robot model.
// modelName sets the name of the model, and will use the name from the JSON
// if the string is empty.
func UnmarshalModelJSON(jsonData []byte, modelName string) (*Model, error) {
	// empty data probably means the model file was never populated
	if len(jsonData) == 0 {
		return nil, ErrNoModelInformation
	}

	cfg := &ModelConfig{}
	if err := json.Unmarshal(jsonData, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal json file")
	}
	return cfg.ParseConfig(modelName)
}

// ParseConfig converts the ModelConfig struct into a full Model with the
// name modelName.
func (cfg *ModelConfig) ParseConfig(modelName string) (*Model, error) {
	if modelName == "" {
		modelName = cfg.Name
	}

	model := &Model{
		name:   modelName,
		index:  make(map[string]int),
		groups: make(map[string][]string),
	}

	for _, jc := range cfg.Joints {
		if jc.ID == "" {
			return nil, errors.New("joint with empty id")
		}
		if _, ok := model.index[jc.ID]; ok {
			return nil, errors.Errorf("joint %q defined more than once", jc.ID)
		}
		joint, err := jc.parse()
		if err != nil {
			return nil, err
		}
		model.index[jc.ID] = len(model.joints)
		model.joints = append(model.joints, joint)
	}

	for group, names := range cfg.Groups {
		for _, name := range names {
			if _, ok := model.index[name]; !ok {
				return nil, errors.Errorf("group %q references unknown joint %q", group, name)
			}
		}
		ordered := make([]string, len(names))
		copy(ordered, names)
		model.groups[group] = ordered
	}

	if cfg.VirtualBase != nil {
		model.base = &VirtualBase{
			Name: cfg.VirtualBase.ID,
			Translation: r3.Vector{
				X: cfg.VirtualBase.Translation.X,
				Y: cfg.VirtualBase.Translation.Y,
				Z: cfg.VirtualBase.Translation.Z,
			},
			Quaternion: quat.Number{
				Real: cfg.VirtualBase.Quaternion.W,
				Imag: cfg.VirtualBase.Quaternion.X,
				Jmag: cfg.VirtualBase.Quaternion.Y,
				Kmag: cfg.VirtualBase.Quaternion.Z,
			},
		}
	}

	return model, nil
}

func (jc JointConfig) parse() (Joint, error) {
	jointType := jc.Type
	if jointType == "" {
		jointType = JointRevolute
	}
	switch jointType {
	case JointRevolute, JointPrismatic:
		if jc.Min > jc.Max {
			return Joint{}, errors.Errorf("joint %q has min %f greater than max %f", jc.ID, jc.Min, jc.Max)
		}
		return Joint{Name: jc.ID, Type: jointType, Limit: Limit{Min: jc.Min, Max: jc.Max}}, nil
	case JointContinuous:
		// continuous joints have no travel limits of their own
		return Joint{Name: jc.ID, Type: jointType, Limit: Limit{Min: -math.Pi, Max: math.Pi}}, nil
	default:
		return Joint{}, errors.Errorf("unsupported joint type detected: %q", jointType)
	}
}

// ParseModelJSONFile will read a given file and then parse the contained
// JSON data.
func ParseModelJSONFile(filename, modelName string) (*Model, error) {
	//nolint:gosec
	jsonData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read json file")
	}
	return UnmarshalModelJSON(jsonData, modelName)
}
