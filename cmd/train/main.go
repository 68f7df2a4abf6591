package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"eunoia/internal/logging"
	"eunoia/internal/training"
)

func main() {
	outDir := flag.String("out", "./models", "directory to write model files")
	testFrac := flag.Float64("test", 0.2, "fraction of samples held out for evaluation")
	seed := flag.Uint64("seed", 42, "shuffle seed")
	epochs := flag.Int("epochs", training.DefaultOptions().Epochs, "gradient descent epochs")
	flag.Parse()

	logging.Init(os.Getenv("LOG_LEVEL"))

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		slog.Error("[Train] Failed to create output dir", slog.String("error", err.Error()))
		os.Exit(1)
	}

	samples := training.SampleData()
	trainIdx, testIdx := training.TrainTestSplit(len(samples), *testFrac, *seed)
	opts := training.DefaultOptions()
	opts.Epochs = *epochs

	slog.Info("[Train] Dataset ready",
		slog.Int("samples", len(samples)),
		slog.Int("train", len(trainIdx)),
		slog.Int("test", len(testIdx)))

	jobs := []struct {
		name     string
		file     string
		classes  []string
		features []string
		x        func(training.Sample) []float64
		y        func(training.Sample) int
	}{
		{
			name:     "risk_model",
			file:     "risk_model.json",
			classes:  training.RiskClasses,
			features: training.BehavioralFeatureNames,
			x:        training.BehavioralFeatures,
			y:        training.Sample.RiskClass,
		},
		{
			name:     "mental_health_classifier",
			file:     "mental_health_classifier.json",
			classes:  training.MentalHealthClasses,
			features: training.TextFeatureNames,
			x:        func(s training.Sample) []float64 { return training.TextFeatures(s.Text) },
			y:        training.Sample.MentalHealthClass,
		},
	}

	for _, job := range jobs {
		trainX, trainY := subset(samples, trainIdx, job.x, job.y)
		testX, testY := subset(samples, testIdx, job.x, job.y)

		m, err := training.Train(job.name, trainX, trainY, job.classes, job.features, opts)
		if err != nil {
			slog.Error("[Train] Training failed", slog.String("model", job.name), slog.String("error", err.Error()))
			os.Exit(1)
		}

		path := filepath.Join(*outDir, job.file)
		if err := m.Save(path); err != nil {
			slog.Error("[Train] Failed to save model", slog.String("path", path), slog.String("error", err.Error()))
			os.Exit(1)
		}

		slog.Info("[Train] Model trained",
			slog.String("model", job.name),
			slog.Float64("train_accuracy", m.Accuracy(trainX, trainY)),
			slog.Float64("test_accuracy", m.Accuracy(testX, testY)),
			slog.String("path", path))
	}

	fmt.Println("Training complete. Set MODEL_BACKEND=local to serve the mental-health classifier.")
}

func subset(samples []training.Sample, idx []int, x func(training.Sample) []float64, y func(training.Sample) int) ([][]float64, []int) {
	X := make([][]float64, 0, len(idx))
	Y := make([]int, 0, len(idx))
	for _, i := range idx {
		X = append(X, x(samples[i]))
		Y = append(Y, y(samples[i]))
	}
	return X, Y
}
