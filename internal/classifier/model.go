package classifier

import (
	"context"
	_ "embed"
	"math"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed model.yaml
var defaultModelYAML []byte

// modelFile is the persisted shape of a trained model artifact.
type modelFile struct {
	Version   int       `yaml:"version"`
	Threshold float64   `yaml:"threshold"`
	Bias      float64   `yaml:"bias"`
	Weights   []float64 `yaml:"weights"`
	Means     []float64 `yaml:"means"`  // per numeric feature
	Scales    []float64 `yaml:"scales"` // per numeric feature
}

// LinearModel scores feature rows with a pre-trained logistic model. The
// numeric feature columns are standardized with the training-time means
// and scales before the linear combination is applied.
type LinearModel struct {
	threshold float64
	bias      float64
	weights   []float64
	means     []float64
	scales    []float64
}

// LoadModel reads a trained model artifact from disk. An empty path loads
// the model bundled with the binary.
func LoadModel(path string) (*LinearModel, error) {
	data := defaultModelYAML
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "classifier: read model %s", path)
		}
	}

	var mf modelFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, eris.Wrap(err, "classifier: parse model")
	}
	if len(mf.Weights) != FeatureCount {
		return nil, eris.Errorf("classifier: model has %d weights, want %d", len(mf.Weights), FeatureCount)
	}
	if len(mf.Means) != len(NumericFeatures) || len(mf.Scales) != len(NumericFeatures) {
		return nil, eris.Errorf("classifier: model scaling covers %d/%d numeric features, want %d",
			len(mf.Means), len(mf.Scales), len(NumericFeatures))
	}
	if mf.Threshold == 0 {
		mf.Threshold = 0.5
	}

	return &LinearModel{
		threshold: mf.Threshold,
		bias:      mf.Bias,
		weights:   mf.Weights,
		means:     mf.Means,
		scales:    mf.Scales,
	}, nil
}

// Predict scores each feature row to a binary prediction.
func (m *LinearModel) Predict(ctx context.Context, matrix [][]float64) ([]int, error) {
	out := make([]int, len(matrix))
	for i, row := range matrix {
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "classifier: predict cancelled")
		}
		if len(row) != FeatureCount {
			return nil, eris.Errorf("classifier: row %d has %d features, want %d", i, len(row), FeatureCount)
		}

		z := m.bias
		for j, x := range row {
			if j < len(m.means) && m.scales[j] != 0 {
				x = (x - m.means[j]) / m.scales[j]
			}
			z += m.weights[j] * x
		}

		if sigmoid(z) >= m.threshold {
			out[i] = 1
		}
	}
	return out, nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
