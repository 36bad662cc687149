package artifacts

import (
	"fmt"
	"strings"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
)

// ONNXClassifier classifies comment text with a transformer exported to ONNX.
// It is an optional backend for deployments that trained a neural per-comment
// model instead of the tf-idf pair; the label names emitted by the model must
// map onto the fixed five-label set.
type ONNXClassifier struct {
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
	labels   map[string]int
}

func NewONNXClassifier(modelPath string, labels map[string]int) (*ONNXClassifier, error) {
	if modelPath == "" {
		return nil, fmt.Errorf("no ONNX model path configured")
	}

	session, err := hugot.NewORTSession()
	if err != nil {
		return nil, fmt.Errorf("init onnx session: %w", err)
	}

	config := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      "commentEmotionPipeline",
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		session.Destroy()
		return nil, fmt.Errorf("init classification pipeline: %w", err)
	}

	return &ONNXClassifier{session: session, pipeline: pipeline, labels: labels}, nil
}

func (c *ONNXClassifier) ClassifyText(text string) (int, error) {
	output, err := c.pipeline.RunPipeline([]string{text})
	if err != nil {
		return 0, err
	}

	outputs := output.GetOutput()
	if len(outputs) == 0 {
		return 0, fmt.Errorf("empty pipeline output")
	}
	predictions, ok := outputs[0].([]pipelines.ClassificationOutput)
	if !ok || len(predictions) == 0 {
		return 0, fmt.Errorf("unexpected pipeline output format")
	}

	code, ok := c.labels[strings.ToLower(predictions[0].Label)]
	if !ok {
		return 0, fmt.Errorf("unmapped model label %q", predictions[0].Label)
	}
	return code, nil
}

func (c *ONNXClassifier) Close() {
	if c.session != nil {
		c.session.Destroy()
	}
}
