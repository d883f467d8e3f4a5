package telemetry

import (
	"os"
)

const (
	envCalibration = "MEMAGENT_CALIBRATION_MODE"
	envObserve     = "MEMAGENT_OBSERVE_JSON"
	envArtifacts   = "MEMAGENT_ARTIFACTS_DIR"

	defaultArtifactsDir = ".agent"
)

// flags are the switches evaluated once at process start.
type flags struct {
	calibration bool
	observe     bool
}

var startup = readFlags(os.LookupEnv)

// readFlags derives the startup switches. Observation follows calibration
// unless MEMAGENT_OBSERVE_JSON is set, in which case only "1" enables it.
func readFlags(lookup func(string) (string, bool)) flags {
	var f flags
	if v, _ := lookup(envCalibration); v == "1" {
		f.calibration = true
	}
	if v, ok := lookup(envObserve); ok {
		f.observe = v == "1"
	} else {
		f.observe = f.calibration
	}
	return f
}

// CalibrationModeEnabled reports whether local feature events are recorded.
// Setting MEMAGENT_CALIBRATION_MODE=1 after start also enables it.
func CalibrationModeEnabled() bool {
	return startup.calibration || os.Getenv(envCalibration) == "1"
}

// ObserveEnabled reports whether events are written at all.
// Setting MEMAGENT_OBSERVE_JSON=1 after start also enables it.
func ObserveEnabled() bool {
	return startup.observe || os.Getenv(envObserve) == "1"
}

// ArtifactsDir is the directory holding events.jsonl.
func ArtifactsDir() string {
	if v := os.Getenv(envArtifacts); v != "" {
		return v
	}
	return defaultArtifactsDir
}
